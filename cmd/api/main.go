package main

import "github.com/geocoder89/cityevents/cmd/api/cmd"

func main() {
	cmd.Execute()
}
