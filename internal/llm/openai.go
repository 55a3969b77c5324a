// Package llm generates the optional narrative section of a drought report
// through the OpenAI chat completion API.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"droughtcast/internal/logger"
)

// requestTimeout bounds one completion request
const requestTimeout = 60 * time.Second

// Client wraps the OpenAI API for narrative generation
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a narrative client
func NewClient(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Summary is the computed analysis handed to the model. All statistics are
// already final; the model only writes prose around them.
type Summary struct {
	Site          string
	Scale         int
	Window        int
	Start         time.Time
	End           time.Time
	LatestIndex   float64
	MinIndex      float64
	MinIndexMonth time.Time
	DroughtMonths int
	MeanCV        float64
	Bulletins     []string
}

// Narrative requests a markdown narrative for the analysis summary
func (c *Client) Narrative(ctx context.Context, summary Summary) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("llm: client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildPrompt(summary),
				},
			},
			MaxTokens:   4000,
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("llm: completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion response")
	}

	narrative := resp.Choices[0].Message.Content
	logger.Debugf("Generated narrative with %d characters", len(narrative))
	return narrative, nil
}

// systemPrompt frames the model as a drought analyst writing for station
// operators and water managers
const systemPrompt = "You are a climatologist summarizing drought conditions for a single weather station. Write a concise markdown narrative based only on the statistics provided. Explain what the SPEI values mean in plain terms, note any drought severity thresholds crossed (SPEI below -1 moderate, below -2 severe), and comment on precipitation variability. Do not invent numbers that are not in the data."

// buildPrompt lays the computed statistics out for the model
func buildPrompt(summary Summary) string {
	var b strings.Builder

	site := summary.Site
	if site == "" {
		site = "the station"
	}
	fmt.Fprintf(&b, "## Drought analysis for %s\n\n", site)
	fmt.Fprintf(&b, "Observation period: %s to %s\n",
		summary.Start.Format("2006-01"), summary.End.Format("2006-01"))
	fmt.Fprintf(&b, "SPEI integration scale: %d months\n", summary.Scale)
	fmt.Fprintf(&b, "Rolling variability window: %d months\n\n", summary.Window)

	fmt.Fprintf(&b, "Latest SPEI: %.2f\n", summary.LatestIndex)
	fmt.Fprintf(&b, "Lowest SPEI: %.2f in %s\n",
		summary.MinIndex, summary.MinIndexMonth.Format("January 2006"))
	fmt.Fprintf(&b, "Months with SPEI below -1: %d\n", summary.DroughtMonths)
	fmt.Fprintf(&b, "Mean rolling coefficient of variation of precipitation: %.3f\n", summary.MeanCV)

	if len(summary.Bulletins) > 0 {
		b.WriteString("\nRecent U.S. Drought Monitor bulletins:\n")
		for _, bulletin := range summary.Bulletins {
			fmt.Fprintf(&b, "- %s\n", bulletin)
		}
	}

	b.WriteString("\nWrite the narrative now.")
	return b.String()
}
