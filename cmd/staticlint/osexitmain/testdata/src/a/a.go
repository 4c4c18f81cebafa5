package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("starting")
	defer fmt.Println("never printed")
	go func() {
		os.Exit(3) // closures are not flagged
	}()
	os.Exit(1) // want "direct os.Exit call in main.main"
}

func helper() {
	os.Exit(2) // only main.main is flagged
}
