package seed

// Spec defines the fixture data written by Apply. Entities refer to each
// other through their Key.
type Spec struct {
	// Users to create
	Users []UserSpec `yaml:"users,omitempty" json:"users,omitempty"`

	// Organizations to create; admins and members are user keys
	Organizations []OrganizationSpec `yaml:"organizations,omitempty" json:"organizations,omitempty"`

	// Events to create, with their tasks and projects
	Events []EventSpec `yaml:"events,omitempty" json:"events,omitempty"`

	// Posts to create, with their comments
	Posts []PostSpec `yaml:"posts,omitempty" json:"posts,omitempty"`

	// GroupChats to create
	GroupChats []GroupChatSpec `yaml:"groupChats,omitempty" json:"groupChats,omitempty"`

	// Tags to create as per-organization trees
	Tags []TagSpec `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// UserSpec defines a user
type UserSpec struct {
	Key       string `yaml:"key" json:"key"`
	FirstName string `yaml:"firstName" json:"firstName"`
	LastName  string `yaml:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string `yaml:"email" json:"email"`
}

// OrganizationSpec defines an organization
type OrganizationSpec struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Creator     string   `yaml:"creator" json:"creator"`
	Admins      []string `yaml:"admins,omitempty" json:"admins,omitempty"`
	Members     []string `yaml:"members,omitempty" json:"members,omitempty"`
}

// EventSpec defines an event
type EventSpec struct {
	Key          string        `yaml:"key" json:"key"`
	Title        string        `yaml:"title" json:"title"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Organization string        `yaml:"organization" json:"organization"`
	Creator      string        `yaml:"creator" json:"creator"`
	Admins       []string      `yaml:"admins,omitempty" json:"admins,omitempty"`
	Registrants  []string      `yaml:"registrants,omitempty" json:"registrants,omitempty"`
	Tasks        []TaskSpec    `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	Projects     []ProjectSpec `yaml:"projects,omitempty" json:"projects,omitempty"`
}

// TaskSpec defines a task of the enclosing event
type TaskSpec struct {
	Title   string `yaml:"title" json:"title"`
	Creator string `yaml:"creator" json:"creator"`
}

// ProjectSpec defines a project of the enclosing event
type ProjectSpec struct {
	Title   string `yaml:"title" json:"title"`
	Creator string `yaml:"creator" json:"creator"`
}

// PostSpec defines a post
type PostSpec struct {
	Key          string        `yaml:"key" json:"key"`
	Title        string        `yaml:"title" json:"title"`
	Text         string        `yaml:"text,omitempty" json:"text,omitempty"`
	Organization string        `yaml:"organization" json:"organization"`
	Creator      string        `yaml:"creator" json:"creator"`
	Comments     []CommentSpec `yaml:"comments,omitempty" json:"comments,omitempty"`
}

// CommentSpec defines a comment of the enclosing post
type CommentSpec struct {
	Text    string `yaml:"text" json:"text"`
	Creator string `yaml:"creator" json:"creator"`
}

// GroupChatSpec defines a group chat
type GroupChatSpec struct {
	Title        string   `yaml:"title" json:"title"`
	Organization string   `yaml:"organization" json:"organization"`
	Creator      string   `yaml:"creator" json:"creator"`
	Users        []string `yaml:"users,omitempty" json:"users,omitempty"`
}

// TagSpec defines a tag and its subtree
type TagSpec struct {
	Organization string    `yaml:"organization,omitempty" json:"organization,omitempty"`
	Name         string    `yaml:"name" json:"name"`
	Children     []TagSpec `yaml:"children,omitempty" json:"children,omitempty"`
}
