// Package main is the entry point for the RoamSim storefront server.
package main

func main() {
	Execute()
}
