package main

import (
	"tinyweb/internal/assets"
	"tinyweb/internal/handlers"
	"tinyweb/internal/route"
)

// profileField is the JSON field /profile echoes and reports.
const profileField = "user"

func routes() (*route.Table, error) {
	status, err := handlers.NewStatus()
	if err != nil {
		return nil, err
	}
	profile, err := handlers.NewProfileGet(profileField)
	if err != nil {
		return nil, err
	}
	return route.NewTable(
		route.Route{Path: "/", File: assets.Index, Get: handlers.Static{}},
		route.Route{Path: "/custom.js", File: assets.CustomJS, Get: handlers.Static{}},
		route.Route{Path: "/style.css", File: assets.StyleCSS, Get: handlers.Static{}},
		route.Route{Path: "/profile", Get: profile, Post: handlers.ProfilePost{Field: profileField}},
		route.Route{Path: "/status", Get: status},
	), nil
}
