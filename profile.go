/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

var namedProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

func registerProfileHandlers(cfg *Config, mux *httprouter.Router) {
	path := cfg.prefix + "/pprof/"

	for _, name := range namedProfiles {
		mux.Handler(http.MethodGet, path+name, pprof.Handler(name))
	}

	mux.HandlerFunc(http.MethodGet, path+"cmdline", pprof.Cmdline)
	mux.HandlerFunc(http.MethodGet, path+"profile", pprof.Profile)
	mux.HandlerFunc(http.MethodGet, path+"symbol", pprof.Symbol)
	mux.HandlerFunc(http.MethodGet, path+"trace", pprof.Trace)

	logf(cfg, "SERVE: Profiling enabled at %s", path)
}
