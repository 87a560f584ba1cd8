package registry

import "github.com/stockline/herdctl/internal/form"

// Pig is the pig registration wizard: identity → origin → details →
// review. The ear-tag code is checked for uniqueness against the
// backend; origin detail and source farm are required only for the
// origin types that need them.
func Pig() *form.Definition {
	return &form.Definition{
		Name:  "pig",
		Title: "Register Pig",
		Fields: []form.Descriptor{
			{
				Name: "code", Label: "Ear-tag code", Type: form.FieldText,
				Required: true, UniqueKind: "pig_code",
			},
			{
				Name: "breed", Label: "Breed", Type: form.FieldSelect,
				Required: true, OptionKind: "breeds",
			},
			{
				Name: "sex", Label: "Sex", Type: form.FieldSelect,
				Required: true, Enum: []string{"male", "female"},
			},
			{
				Name: "originType", Label: "Origin", Type: form.FieldSelect,
				Required: true, Enum: []string{"born", "purchased", "other"},
			},
			{
				Name: "originDetail", Label: "Origin detail", Type: form.FieldText,
				Rules: []form.ConditionalRule{
					{When: `originType == "other"`, Fields: []string{"originType"}, Required: boolPtr(true)},
				},
			},
			{
				Name: "sourceFarm", Label: "Source farm", Type: form.FieldSelect,
				OptionKind: "farms",
				Rules: []form.ConditionalRule{
					{When: `originType == "purchased"`, Fields: []string{"originType"}, Required: boolPtr(true)},
				},
			},
			{
				Name: "birthDate", Label: "Birth date", Type: form.FieldDate,
				Required: true,
			},
			{
				Name: "weight", Label: "Weight (kg)", Type: form.FieldFloat,
				Min: 0.3, Max: 500, HasBounds: true,
			},
			{
				Name: "notes", Label: "Notes", Type: form.FieldText,
			},
			{
				Name: "registeredBy", Label: "Registered by", Type: form.FieldText,
				Required: true,
			},
		},
		Steps: []form.Step{
			{Title: "Identity", Fields: []string{"code", "breed", "sex"}},
			{Title: "Origin", Fields: []string{"originType", "originDetail", "sourceFarm"}},
			{Title: "Details", Fields: []string{"birthDate", "weight", "notes"}},
			{Title: "Review"},
		},
		SubmitPath: "/v1/pigs",
		Stamp: func(rec *form.Record, user form.User) {
			rec.Set("registeredBy", user.ID)
		},
	}
}
