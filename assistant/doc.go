// Package assistant wires a chat client to the calculator and city_info
// tools and answers one question at a time.
//
// Failures never escape [Assistant.Ask]: they are returned as text with an
// "Execution error:" prefix so a console loop can print them verbatim.
//
//	c, err := client.New(ctx, client.Config{APIKey: os.Getenv("ANTHROPIC_API_KEY")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a := assistant.New(c, assistant.DefaultConfig())
//	fmt.Println(a.Ask(ctx, "What is 2 + 2?"))
package assistant
