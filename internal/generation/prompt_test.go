package generation

import (
	"strings"
	"testing"

	"github.com/phrazzld/slaypost-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	req := domain.GenerationRequest{
		Topic:      "  Remote work <tips> & tricks ",
		Experience: "\nLed a distributed team for 5 years\t",
		Message:    "Async beats meetings",
		Audience:   "Engineering managers",
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, "- Topic: Remote work <tips> & tricks\n", "values are trimmed and not escaped")
	assert.Contains(t, prompt, "- Personal Experience: Led a distributed team for 5 years\n")
	assert.Contains(t, prompt, "- Main Message: Async beats meetings\n")
	assert.Contains(t, prompt, "- Target Audience: Engineering managers\n")
	assert.Contains(t, prompt, `"authorityPost": "..."`)
	assert.Contains(t, prompt, `"relatablePost": "..."`)
	assert.Contains(t, prompt, `Use \n\n between paragraph blocks`)
	assert.True(t, strings.HasSuffix(prompt, "Return ONLY the raw JSON object."))
	assert.NotContains(t, prompt, "{{")

	// the stored request is not mutated
	assert.Equal(t, "  Remote work <tips> & tricks ", req.Topic)
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	t.Parallel()

	req := domain.GenerationRequest{Topic: "X", Experience: "Y", Message: "Z", Audience: "W"}
	assert.Equal(t, BuildPrompt(req), BuildPrompt(req))
}

func TestBuildPrompt_SectionOrder(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(domain.GenerationRequest{Topic: "X", Experience: "Y", Message: "Z", Audience: "W"})

	hook := strings.Index(prompt, "S = Strong Hook")
	lesson := strings.Index(prompt, "L = Lesson or Insight")
	story := strings.Index(prompt, "A = Action or Story")
	cta := strings.Index(prompt, "Y = Your CTA")

	assert.True(t, hook >= 0 && hook < lesson && lesson < story && story < cta)
}

func TestBuildPrompt_TemplateSyntaxInFieldsIsLiteral(t *testing.T) {
	t.Parallel()

	req := domain.GenerationRequest{
		Topic:      "{{.Topic}}",
		Experience: "{{ template \"x\" }}",
		Message:    "}}{{",
		Audience:   "<b>&</b>",
	}

	var prompt string
	require.NotPanics(t, func() {
		prompt = BuildPrompt(req)
	})
	assert.Contains(t, prompt, "{{.Topic}}")
	assert.Contains(t, prompt, "{{ template \"x\" }}")
	assert.Contains(t, prompt, "}}{{")
	assert.Contains(t, prompt, "<b>&</b>")
}
