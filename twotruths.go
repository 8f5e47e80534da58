/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math/rand"

	"github.com/Seednode/icebreakers/engine"
	"github.com/Seednode/icebreakers/games/twotruths"
)

var twoTruthsGame = &gameDef{
	slug:  "twotruths",
	title: "Two Truths and a Lie",
	blurb: "Everyone writes three statements about themselves. The others try to spot the lie.",

	newDriver: func(names []string, raw json.RawMessage, rng *rand.Rand, onComplete func(any)) (driver, error) {
		var opts struct {
			WritingSeconds  int `json:"writing_seconds"`
			GuessingSeconds int `json:"guessing_seconds"`
			RevealSeconds   int `json:"reveal_seconds"`
		}
		if err := decodeOptions(raw, &opts); err != nil {
			return nil, err
		}

		g, err := twotruths.New(names, twotruths.Options{
			WritingSeconds:  opts.WritingSeconds,
			GuessingSeconds: opts.GuessingSeconds,
			RevealSeconds:   opts.RevealSeconds,
			Rand:            rng,
			OnComplete:      func(r twotruths.Results) { onComplete(r) },
		})
		if err != nil {
			return nil, err
		}

		return twoTruthsDriver{g}, nil
	},
}

type twoTruthsDriver struct {
	*twotruths.Game
}

func (d twoTruthsDriver) handle(msg ClientMessage) (any, error) {
	switch msg.Type {
	case "submit":
		if msg.Lie == nil {
			return nil, engine.Validate([]string{"Mark which statement is the lie"})
		}
		return nil, d.Submit(msg.PlayerID, msg.Statements, *msg.Lie)
	case "guess":
		if msg.Index == nil {
			return nil, engine.Validate([]string{"Pick one of the three statements"})
		}
		return nil, d.Guess(msg.PlayerID, *msg.Index)
	case "next":
		return nil, d.Next()
	default:
		return nil, errUnknownAction(msg.Type)
	}
}

func (d twoTruthsDriver) actions() []string {
	switch d.Phase() {
	case twotruths.PhaseWriting:
		return []string{"submit"}
	case twotruths.PhaseGuessing:
		return []string{"guess"}
	case twotruths.PhaseReveal:
		return []string{"next"}
	default:
		return nil
	}
}

func (d twoTruthsDriver) snapshot() any { return d.Snapshot() }
