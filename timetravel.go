/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"math/rand"

	"github.com/Seednode/icebreakers/games/timetravel"
)

var timeTravelGame = &gameDef{
	slug:  "timetravel",
	title: "Time Travel Adventures",
	blurb: "Each traveler lands in a different era. Act out the scenario in character, then vote for the best performance.",

	newDriver: func(names []string, raw json.RawMessage, rng *rand.Rand, onComplete func(any)) (driver, error) {
		var opts struct {
			MaxRounds       int `json:"max_rounds"`
			BriefingSeconds int `json:"briefing_seconds"`
			ActingSeconds   int `json:"acting_seconds"`
			VotingSeconds   int `json:"voting_seconds"`
			ResultsSeconds  int `json:"results_seconds"`
		}
		if err := decodeOptions(raw, &opts); err != nil {
			return nil, err
		}

		g, err := timetravel.New(names, timetravel.Options{
			MaxRounds:       opts.MaxRounds,
			BriefingSeconds: opts.BriefingSeconds,
			ActingSeconds:   opts.ActingSeconds,
			VotingSeconds:   opts.VotingSeconds,
			ResultsSeconds:  opts.ResultsSeconds,
			Rand:            rng,
			OnComplete:      func(r timetravel.Results) { onComplete(r) },
		})
		if err != nil {
			return nil, err
		}

		return timeTravelDriver{g}, nil
	},
}

type timeTravelDriver struct {
	*timetravel.Game
}

func (d timeTravelDriver) handle(msg ClientMessage) (any, error) {
	switch msg.Type {
	case "ready":
		return nil, d.Ready()
	case "act":
		action, err := d.Act(msg.PlayerID, msg.Text)
		if err != nil {
			return nil, err
		}
		return action, nil
	case "vote":
		return nil, d.Vote(msg.PlayerID, msg.TargetID)
	case "next":
		return nil, d.Next()
	default:
		return nil, errUnknownAction(msg.Type)
	}
}

func (d timeTravelDriver) actions() []string {
	switch d.Phase() {
	case timetravel.PhaseBriefing:
		return []string{"ready"}
	case timetravel.PhaseActing:
		return []string{"act"}
	case timetravel.PhaseVoting:
		return []string{"vote"}
	case timetravel.PhaseResults:
		return []string{"next"}
	default:
		return nil
	}
}

func (d timeTravelDriver) snapshot() any { return d.Snapshot() }
