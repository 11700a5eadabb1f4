package agent

import "google.golang.org/genai"

const model = "gemini-2.5-pro"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and of solving the user's request.

			The experts available as Tools are at your service, they keep the context of your previous questions.
			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user holds a portfolio in Argentine pesos (ARS) and US dollars (USD): stocks, bonds, crypto,
			fixed-term deposits and cauciones. Check the portfolio with the Accountant before answering
			about any of the user's assets.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns an expert grounded on Google Search, for market news
// about the securities held.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a market analyst, aware of the Argentine and US markets,
		of their financial products and institutions, and of the latest news.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a market analyst. Leverage Google Search to ground your assertions about
			companies, bonds, exchange rates and inflation in Argentina and the US.
			`),
		},
	}
}

// NewAccountant returns the expert answering from the portfolio p.
func NewAccountant(p *Portfolio) *Expert {
	lib := p.Tools()
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant, in charge of the user's portfolio.
		The Accountant values the portfolio on any day, in ARS and USD, by category,
		and computes its monthly and annual performance.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the accountant of the user's portfolio. Use the Tools to answer about
			  - what is held on a day
			  - the current value
			  - the value history
			  - the breakdown by category
			  - the performance, nominal and real
			Other experts might use approximate language, figure out what they meant.
			`),
		},
		Library: NewLibrary(lib),
	}
}
