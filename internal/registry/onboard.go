package registry

import (
	"github.com/gosimple/slug"

	"github.com/stockline/herdctl/internal/form"
)

// Onboarding is the farm/user onboarding wizard. The farm name is
// checked for uniqueness; the short code is derived from it (editable)
// and sending an owner invite trips the confirmation gate, since the
// invite email goes out the moment the backend accepts the farm.
func Onboarding() *form.Definition {
	return &form.Definition{
		Name:  "onboarding",
		Title: "Onboard Farm",
		Fields: []form.Descriptor{
			{
				Name: "farmName", Label: "Farm name", Type: form.FieldText,
				Required: true, UniqueKind: "farm_name",
			},
			{
				Name: "farmCode", Label: "Farm code", Type: form.FieldText,
				Required: true,
			},
			{
				Name: "region", Label: "Region", Type: form.FieldSelect,
				Required: true, OptionKind: "regions",
			},
			{
				Name: "ownerName", Label: "Owner name", Type: form.FieldText,
				Required: true,
			},
			{
				Name: "ownerEmail", Label: "Owner email", Type: form.FieldText,
				Rules: []form.ConditionalRule{
					{When: `sendInvite == true`, Fields: []string{"sendInvite"}, Required: boolPtr(true)},
				},
			},
			{
				Name: "ownerRole", Label: "Owner role", Type: form.FieldSelect,
				Required: true, Enum: []string{"owner", "manager", "veterinarian"},
			},
			{
				Name: "sendInvite", Label: "Send invite email", Type: form.FieldBool,
			},
			{
				Name: "onboardedBy", Label: "Onboarded by", Type: form.FieldText,
				Required: true,
			},
		},
		Steps: []form.Step{
			{Title: "Farm", Fields: []string{"farmName", "farmCode", "region"}},
			{Title: "Owner", Fields: []string{"ownerName", "ownerEmail", "ownerRole", "sendInvite"}},
			{Title: "Review"},
		},
		Confirm: &form.ConfirmationGate{
			When:    `sendInvite == true`,
			Title:   "Confirm invite",
			Message: "An invite email is sent to the owner as soon as the farm is created.",
			Fields:  []string{"farmName", "ownerName", "ownerEmail"},
		},
		SubmitPath: "/v1/farms",
		Stamp: func(rec *form.Record, user form.User) {
			rec.Set("onboardedBy", user.ID)
		},
	}
}

// DeriveFarmCode proposes a short code from the farm name. The TUI calls
// this while the user has not edited the code by hand.
func DeriveFarmCode(name string) string {
	code := slug.Make(name)
	if len(code) > 24 {
		code = code[:24]
	}
	return code
}
