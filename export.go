/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// ExportMessage carries a plain text rendering of the game and, for the
// "qr" format, a PNG QR code of that text (base64 in JSON).
type ExportMessage struct {
	Type   string `json:"type"` // "export"
	Format string `json:"format"`
	Text   string `json:"text"`
	PNG    []byte `json:"png,omitempty"`
}

func exportGame(d driver, format string) (ExportMessage, error) {
	if format == "" {
		format = "text"
	}

	msg := ExportMessage{
		Type:   "export",
		Format: format,
		Text:   d.Text(),
	}

	switch format {
	case "text":
	case "qr":
		png, err := qrcode.Encode(msg.Text, qrcode.Low, qrSize)
		if err != nil {
			return ExportMessage{}, fmt.Errorf("too much text for a QR code, export as text instead: %w", err)
		}
		msg.PNG = png
	default:
		return ExportMessage{}, fmt.Errorf("unknown export format %q", format)
	}

	return msg, nil
}

func (s *Session) export(format string) {
	msg, err := exportGame(s.driver, format)
	if err != nil {
		s.pushError("export", err)
		return
	}

	logf(s.cfg, "GAMES: Exported %s session %s as %s (%s)",
		s.game.slug, s.id, msg.Format, humanReadableSize(int64(len(msg.Text)+len(msg.PNG))))

	s.push(msg)
}
