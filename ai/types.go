package ai

import "github.com/975125089bb/flutter-app/core"

// FieldSpec describes one attribute the extraction prompt asks for.
type FieldSpec struct {
	Name string
	Hint string
}

// GenderField is requested only when the document name does not decide gender.
var GenderField = FieldSpec{Name: core.FieldGender, Hint: "性别（男/女）或null"}

// ProfileFields lists the attributes requested from the service, in prompt order.
var ProfileFields = []FieldSpec{
	{Name: core.FieldBirthYear, Hint: "出生年份（4位数字字符串，如'1990'）或null"},
	{Name: core.FieldZodiac, Hint: "星座或null"},
	{Name: core.FieldMBTI, Hint: "MBTI性格类型（4字母，如'ENTJ'）或null"},
	{Name: core.FieldHeightCM, Hint: "身高厘米数（整数）或null"},
	{Name: core.FieldWeightKG, Hint: "体重千克数（整数）或null"},
	{Name: core.FieldHometown, Hint: "家乡/出生地或null"},
	{Name: core.FieldCurrentLocation, Hint: "现居住地/地区或null"},
	{Name: core.FieldEducation, Hint: "学历或null"},
	{Name: core.FieldOccupation, Hint: "职业或null"},
	{Name: core.FieldAnnualIncome, Hint: "年收入描述或null"},
	{Name: core.FieldHobbies, Hint: "爱好兴趣（合并为一个字符串）或null"},
	{Name: core.FieldPersonality, Hint: "性格描述或null"},
	{Name: core.FieldHasHouse, Hint: "是否有房（true/false/null）"},
	{Name: core.FieldHasCar, Hint: "是否有车（true/false/null）"},
	{Name: core.FieldMaritalStatus, Hint: "婚姻状况或null"},
	{Name: core.FieldPartnerPreferences, Hint: "择偶要求或null"},
	{Name: core.FieldSelfIntroduction, Hint: "自我介绍或null"},
}
