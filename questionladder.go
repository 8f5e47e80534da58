/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math/rand"

	"github.com/Seednode/icebreakers/engine"
	"github.com/Seednode/icebreakers/games/questionladder"
)

var questionLadderGame = &gameDef{
	slug:  "questionladder",
	title: "Question Ladder",
	blurb: "Ask the next player a question, answer the last one, and climb from small talk to real conversation.",

	newDriver: func(names []string, raw json.RawMessage, rng *rand.Rand, onComplete func(any)) (driver, error) {
		var opts struct {
			MaxRounds     int    `json:"max_rounds"`
			AskingSeconds int    `json:"asking_seconds"`
			AnswerSeconds int    `json:"answer_seconds"`
			Vulnerability string `json:"vulnerability"`
		}
		if err := decodeOptions(raw, &opts); err != nil {
			return nil, err
		}

		level, err := questionladder.ParseVulnerability(opts.Vulnerability)
		if err != nil {
			return nil, err
		}

		g, err := questionladder.New(names, questionladder.Options{
			MaxRounds:     opts.MaxRounds,
			AskingSeconds: opts.AskingSeconds,
			AnswerSeconds: opts.AnswerSeconds,
			Vulnerability: level,
			Rand:          rng,
			OnComplete:    func(r questionladder.Results) { onComplete(r) },
		})
		if err != nil {
			return nil, err
		}

		return questionLadderDriver{g}, nil
	},
}

type questionLadderDriver struct {
	*questionladder.Game
}

func (d questionLadderDriver) handle(msg ClientMessage) (any, error) {
	switch msg.Type {
	case "ask":
		analysis, err := d.Ask(msg.PlayerID, msg.Text)
		if err != nil {
			return nil, err
		}
		return analysis, nil
	case "answer":
		return nil, d.Answer(msg.PlayerID, msg.Text)
	case "suggest":
		if d.Phase() != questionladder.PhaseAsking {
			return nil, engine.ErrWrongPhase
		}
		return struct {
			Suggestion string `json:"suggestion"`
		}{d.Suggestion()}, nil
	default:
		return nil, errUnknownAction(msg.Type)
	}
}

func (d questionLadderDriver) actions() []string {
	switch d.Phase() {
	case questionladder.PhaseAsking:
		return []string{"ask", "suggest"}
	case questionladder.PhaseAnswering:
		return []string{"answer"}
	default:
		return nil
	}
}

func (d questionLadderDriver) snapshot() any { return d.Snapshot() }
