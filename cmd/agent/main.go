package main

import "hrdash/internal/app/agent"

func main() {
	agent.Run()
}
