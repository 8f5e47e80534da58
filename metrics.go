/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icebreakers_sessions_total",
			Help: "Game sessions opened, by game",
		},
		[]string{"game"},
	)
	sessionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "icebreakers_sessions_active",
			Help: "Game sessions currently connected, by game",
		},
		[]string{"game"},
	)
	gamesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icebreakers_games_completed_total",
			Help: "Games played through to their final phase, by game",
		},
		[]string{"game"},
	)
	phaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icebreakers_phase_transitions_total",
			Help: "Phase changes observed, by game and destination phase",
		},
		[]string{"game", "phase"},
	)
	actionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icebreakers_actions_rejected_total",
			Help: "Client actions refused, by game and reason",
		},
		[]string{"game", "reason"},
	)
	messagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icebreakers_messages_dropped_total",
			Help: "Inbound messages dropped by the rate limiter, by game",
		},
		[]string{"game"},
	)
)

func init() {
	prometheus.MustRegister(sessionsStarted)
	prometheus.MustRegister(sessionsActive)
	prometheus.MustRegister(gamesCompleted)
	prometheus.MustRegister(phaseTransitions)
	prometheus.MustRegister(actionsRejected)
	prometheus.MustRegister(messagesDropped)
}

func registerMetricsHandler(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
