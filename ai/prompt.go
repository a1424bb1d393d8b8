package ai

import (
	"fmt"
	"strings"

	"github.com/tyler-sommer/stick"
)

const systemPromptTemplate = `你是一个专业的个人信息提取助手。用户将提供包含个人档案信息的中文文本。

请严格按以下JSON格式返回提取到的所有信息，未提及的字段返回null。
{% if gender_known %}注意：性别将由系统根据文件名自动确定，无需从文本中提取。
{% endif %}
{
{% for f in fields %}    "{{ f.name }}": "{{ f.hint }}"{{ f.sep }}
{% endfor %}}

提取规则：
1. 年份转换：81年->1981年，04年->2004年，2位数年份：>30加1900，<=30加2000
2. 单位转换：自动转换身高体重到厘米和千克
3. 房车状态：从"有房无车"、"无房有车"等文本中提取布尔值
4. 合并相似字段：将所有爱好合并为一个字符串
5. 只返回JSON，不要其他文字说明
{% if gender_known %}6. 不要提取性别信息（系统会自动处理）
{% endif %}
示例输入："81年生，身高180，体重85，松户，沈阳，大学，软件，天蝎，有房无车，离婚，爱好：书法，摄影"
示例输出：{"birth_year":"1981","zodiac":"天蝎","height_cm":180,"weight_kg":85,"hometown":"沈阳","current_location":"松户","education":"大学","occupation":"软件","hobbies":"书法，摄影","has_house":true,"has_car":false,"marital_status":"离婚"}
`

// PromptOptions selects the variant of the extraction prompt.
type PromptOptions struct {
	// GenderKnown is set when the document name already decides gender, so
	// the model is told not to extract it.
	GenderKnown bool
}

// RenderSystemPrompt renders the extraction system prompt.
func RenderSystemPrompt(opts PromptOptions) (string, error) {
	specs := ProfileFields
	if !opts.GenderKnown {
		specs = append([]FieldSpec{GenderField}, ProfileFields...)
	}

	fields := make([]map[string]string, len(specs))
	for i, spec := range specs {
		sep := ","
		if i == len(specs)-1 {
			sep = ""
		}
		fields[i] = map[string]string{"name": spec.Name, "hint": spec.Hint, "sep": sep}
	}

	ctx := map[string]stick.Value{
		"gender_known": opts.GenderKnown,
		"fields":       fields,
	}

	var out strings.Builder
	if err := stick.New(nil).Execute(systemPromptTemplate, &out, ctx); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return out.String(), nil
}
