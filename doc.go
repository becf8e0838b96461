/*
Package integrator compiles conversational bot scripts into importable n8n workflows.

A script is an ordered list of blocks. Each block is activated by a trigger (a command
such as "/start" or a button's callback data) and sends an ordered list of messages,
optionally with an inline keyboard. The compiler turns the script into a workflow with
one Telegram trigger, one switch router holding a rule per block, and per block a chain
of send-message nodes separated by wait nodes.

# Usage

	package main

	import (
		"fmt"
		"log"

		integrator "github.com/Novokreschennih/AI-Partner-Integrator"
		"github.com/Novokreschennih/AI-Partner-Integrator/pkg/domain"
	)

	func main() {
		c := integrator.New()

		out, err := c.Compile([]domain.ScriptBlock{{
			ID:      "welcome",
			Trigger: "/start",
			Messages: []domain.Message{
				{Text: "Hi!"},
				{Text: "Pick a topic", Buttons: [][]domain.Button{{
					{Text: "Pricing", CallbackData: "pricing"},
				}}},
			},
		}})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out)
	}

The output contains placeholder Telegram credentials that must be replaced inside n8n
after import.

# Determinism

Node ids come from random UUIDs by default. Inject WithIDGenerator to obtain byte-identical
output across runs; the graph shape (kinds, names, positions and edges) is always the same
for the same script.
*/
package integrator
