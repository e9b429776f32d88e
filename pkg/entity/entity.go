// Package entity holds the records stored in the collections. An ID of 0 means the record
// has not been created yet.
package entity

type Car struct {
	ID   int32  `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

type User struct {
	ID       int32  `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Subscription registers a callback URL for an event on an object type. Subscriptions are
// stored only; nothing delivers the callbacks.
type Subscription struct {
	ID         int32  `json:"id,omitempty" yaml:"id,omitempty"`
	ObjectName string `json:"objectName" yaml:"object_name"`
	EventName  string `json:"eventName" yaml:"event_name"`
	Callback   string `json:"callback" yaml:"callback"`
}

// ErrorDef is a row of the error table: the display name of an error code.
type ErrorDef struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}
