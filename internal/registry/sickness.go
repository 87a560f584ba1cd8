package registry

import "github.com/stockline/herdctl/internal/form"

// Sickness is the sickness/treatment case wizard. Treatments are a
// nested collection composed entry by entry in a staging editor; the
// treatment step is gated on at least one committed entry. A culling
// severity is irreversible and trips the confirmation gate. The backend
// may still reject the case for missing medication stock, which routes
// to the recovery view rather than a generic error.
func Sickness() *form.Definition {
	return &form.Definition{
		Name:  "sickness",
		Title: "Register Sickness Case",
		Fields: []form.Descriptor{
			{
				Name: "pig", Label: "Pig", Type: form.FieldSelect,
				Required: true, OptionKind: "pigs",
			},
			{
				Name: "sicknessType", Label: "Sickness", Type: form.FieldSelect,
				Required: true, OptionKind: "sicknesses",
			},
			{
				Name: "severity", Label: "Severity", Type: form.FieldSelect,
				Required: true, Enum: []string{"mild", "serious", "culling"},
			},
			{
				Name: "detectedDate", Label: "Detected on", Type: form.FieldDate,
				Required: true,
			},
			{
				Name: "detectedBy", Label: "Detected by", Type: form.FieldText,
				Required: true,
			},
			{
				Name: "notes", Label: "Notes", Type: form.FieldText,
			},
			{
				Name: "treatments", Label: "Treatments", Type: form.FieldCollection,
				Entry: []form.Descriptor{
					{
						Name: "medication", Label: "Medication", Type: form.FieldSelect,
						Required: true, OptionKind: "medications",
					},
					{
						Name: "dose", Label: "Dose (ml)", Type: form.FieldFloat,
						Required: true, Min: 0.1, Max: 1000, HasBounds: true,
					},
					{
						Name: "route", Label: "Administration route", Type: form.FieldSelect,
						Required: true, Enum: []string{"oral", "injection", "topical"},
					},
					{
						Name: "days", Label: "Duration (days)", Type: form.FieldInt,
						Required: true, Min: 1, Max: 60, HasBounds: true,
					},
					{
						Name: "withdrawalNote", Label: "Withdrawal note", Type: form.FieldText,
						Rules: []form.ConditionalRule{
							// Injected medication carries a meat withdrawal
							// period that must be noted on the case.
							{When: `route == "injection"`, Fields: []string{"route"}, Required: boolPtr(true)},
						},
					},
				},
			},
		},
		Steps: []form.Step{
			{Title: "Case", Fields: []string{"pig", "sicknessType", "severity", "detectedDate"}},
			{
				Title:       "Treatments",
				Fields:      []string{"treatments"},
				Gate:        `severity == "culling" || len(treatments) > 0`,
				GateMessage: "add at least one treatment, or mark the case for culling",
			},
			{Title: "Notes", Fields: []string{"notes"}},
			{Title: "Review"},
		},
		Confirm: &form.ConfirmationGate{
			When:    `severity == "culling"`,
			Title:   "Confirm culling",
			Message: "This registers the animal for culling. The action cannot be undone once submitted.",
			Fields:  []string{"pig", "sicknessType", "detectedDate"},
		},
		SubmitPath: "/v1/sickness-cases",
		Stamp: func(rec *form.Record, user form.User) {
			rec.Set("detectedBy", user.ID)
		},
	}
}
