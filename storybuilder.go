/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math/rand"

	"github.com/Seednode/icebreakers/engine"
	"github.com/Seednode/icebreakers/games/storybuilder"
)

var storyBuilderGame = &gameDef{
	slug:  "storybuilder",
	title: "Story Building Symphony",
	blurb: "Take turns adding one sentence to a shared story, weaving in the element you are dealt.",

	newDriver: func(names []string, raw json.RawMessage, rng *rand.Rand, onComplete func(any)) (driver, error) {
		var opts struct {
			MaxRounds   int `json:"max_rounds"`
			TurnSeconds int `json:"turn_seconds"`
		}
		if err := decodeOptions(raw, &opts); err != nil {
			return nil, err
		}

		g, err := storybuilder.New(names, storybuilder.Options{
			MaxRounds:   opts.MaxRounds,
			TurnSeconds: opts.TurnSeconds,
			Rand:        rng,
			OnComplete:  func(r storybuilder.Results) { onComplete(r) },
		})
		if err != nil {
			return nil, err
		}

		return storyBuilderDriver{g}, nil
	},
}

type storyBuilderDriver struct {
	*storybuilder.Game
}

func (d storyBuilderDriver) handle(msg ClientMessage) (any, error) {
	switch msg.Type {
	case "contribute":
		entry, err := d.Contribute(msg.PlayerID, msg.Text)
		if err != nil {
			return nil, err
		}
		return entry, nil
	case "revise":
		if msg.Index == nil {
			return nil, engine.Validate([]string{"Pick a sentence to revise"})
		}
		entry, err := d.Revise(msg.PlayerID, *msg.Index, msg.Text)
		if err != nil {
			return nil, err
		}
		return entry, nil
	case "pass":
		return nil, d.Pass(msg.PlayerID)
	default:
		return nil, errUnknownAction(msg.Type)
	}
}

func (d storyBuilderDriver) actions() []string {
	if d.Finished() {
		return nil
	}

	return []string{"contribute", "revise", "pass"}
}

func (d storyBuilderDriver) snapshot() any { return d.Snapshot() }
