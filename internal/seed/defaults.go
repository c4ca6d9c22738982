package seed

// DefaultSpec returns the fixture data used when no seed file is given
func DefaultSpec() *Spec {
	return &Spec{
		Users: []UserSpec{
			{Key: "john.doe", FirstName: "John", LastName: "Doe", Email: "john.doe@community.local"},
			{Key: "jane.smith", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@community.local"},
			{Key: "bob.wilson", FirstName: "Bob", LastName: "Wilson", Email: "bob.wilson@community.local"},
			{Key: "alice.chen", FirstName: "Alice", LastName: "Chen", Email: "alice.chen@community.local"},
		},
		Organizations: []OrganizationSpec{
			{
				Key:         "makers",
				Name:        "Makers Collective",
				Description: "Community workshop for builders",
				Creator:     "john.doe",
				Admins:      []string{"john.doe"},
				Members:     []string{"john.doe", "jane.smith", "bob.wilson", "alice.chen"},
			},
		},
		Events: []EventSpec{
			{
				Key:          "repair-cafe",
				Title:        "Repair Cafe",
				Description:  "Bring broken things, leave with working ones",
				Organization: "makers",
				Creator:      "jane.smith",
				Admins:       []string{"jane.smith"},
				Registrants:  []string{"bob.wilson", "alice.chen"},
				Tasks: []TaskSpec{
					{Title: "Book the hall", Creator: "jane.smith"},
					{Title: "Collect soldering irons", Creator: "bob.wilson"},
				},
				Projects: []ProjectSpec{
					{Title: "Lamp rewiring station", Creator: "alice.chen"},
				},
			},
		},
		Posts: []PostSpec{
			{
				Key:          "welcome",
				Title:        "Welcome to the Makers Collective",
				Text:         "Introduce yourself below.",
				Organization: "makers",
				Creator:      "john.doe",
				Comments: []CommentSpec{
					{Text: "Hi, I fix bikes.", Creator: "bob.wilson"},
					{Text: "Hello from the electronics corner.", Creator: "alice.chen"},
				},
			},
		},
		GroupChats: []GroupChatSpec{
			{
				Title:        "Repair Cafe crew",
				Organization: "makers",
				Creator:      "jane.smith",
				Users:        []string{"jane.smith", "bob.wilson", "alice.chen"},
			},
		},
		Tags: []TagSpec{
			{
				Organization: "makers",
				Name:         "volunteers",
				Children: []TagSpec{
					{Name: "kitchen"},
					{Name: "workshop", Children: []TagSpec{{Name: "electronics"}, {Name: "woodwork"}}},
				},
			},
			{Organization: "makers", Name: "mentors"},
		},
	}
}
