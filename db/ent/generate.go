//go:build ignore

// Generates the ent client into gen/ent from ./db/ent/schema:
//
//	go run ./db/ent/generate.go
package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

func main() {
	err := entc.Generate(
		"./db/ent/schema",
		&gen.Config{
			Target:  "gen/ent",
			Package: "github.com/joseph-ayodele/expedientes/gen/ent",
			Schema:  "github.com/joseph-ayodele/expedientes/db/ent/schema",
		},
	)
	if err != nil {
		log.Fatal(err)
	}
}
