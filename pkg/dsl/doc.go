/*
Package dsl provides a fluent Go builder for bot scripts.

It lets programs assemble scripts with type checking and IDE completion instead of
writing JSON or YAML by hand. The result is a plain []domain.ScriptBlock ready for
the compiler.

Example usage:

	b := dsl.New()

	b.Block("welcome", "/start").
		Say("Hello!").
		Say("What would you like to see?").
		Row(dsl.Callback("Pricing", "pricing"), dsl.Link("Docs", "https://example.com/docs"))

	b.Block("pricing", "pricing").
		Say("It is free.")

	blocks, err := b.Build()
	if err != nil {
		// ...
	}
	out, err := integrator.New().Compile(blocks)
*/
package dsl
