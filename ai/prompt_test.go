package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaBlock returns the JSON template embedded in the prompt.
func schemaBlock(t *testing.T, prompt string) map[string]string {
	t.Helper()
	start := strings.Index(prompt, "{\n")
	end := strings.Index(prompt, "\n}")
	require.True(t, start >= 0 && end > start, "schema block not found")

	var schema map[string]string
	require.NoError(t, json.Unmarshal([]byte(prompt[start:end+2]), &schema))
	return schema
}

func TestRenderSystemPrompt_GenderKnown(t *testing.T) {
	prompt, err := RenderSystemPrompt(PromptOptions{GenderKnown: true})
	require.NoError(t, err)

	assert.Contains(t, prompt, "性别将由系统根据文件名自动确定")
	assert.Contains(t, prompt, "不要提取性别信息")

	schema := schemaBlock(t, prompt)
	assert.Len(t, schema, len(ProfileFields))
	assert.NotContains(t, schema, "gender")
	assert.Equal(t, "星座或null", schema["zodiac"])
}

func TestRenderSystemPrompt_GenderUnknown(t *testing.T) {
	prompt, err := RenderSystemPrompt(PromptOptions{})
	require.NoError(t, err)

	assert.NotContains(t, prompt, "不要提取性别信息")

	schema := schemaBlock(t, prompt)
	assert.Len(t, schema, len(ProfileFields)+1)
	assert.Equal(t, GenderField.Hint, schema["gender"])
}
