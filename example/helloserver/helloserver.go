// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/yeetrun/cmdr/pkg/cmdr"
	"github.com/yeetrun/cmdr/pkg/render"
	"tailscale.com/util/must"
)

var usage = must.Get(cmdr.Derive("hello-server <NAME>... -q, --question=<QUESTION> --format=<FORMAT>"))

func main() {
	log.Fatal(http.ListenAndServe(":8080", newHandler()))
}

// newHandler serves the fields matched from the repeated "arg" query
// parameter, e.g. /match?arg=Alice&arg=--format&arg=yaml.
func newHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, usage.Help())
	})
	mux.HandleFunc("/match", func(w http.ResponseWriter, r *http.Request) {
		fields, err := usage.MatchStrict(r.URL.Query()["arg"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f, _ := fields.Value("format")
		format, err := render.ParseFormat(f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := render.Write(w, format, usage.Keys(), fields); err != nil {
			log.Printf("write response: %v", err)
		}
	})
	return mux
}
