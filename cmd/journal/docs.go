package main

//go:generate swag init -g cmd/journal/main.go -o docs

// @title           Trade Journal API
// @version         0.1.0
// @description     Rebuilds round-trip trades from broker exports and keeps a journal per trade.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
