package db

import "github.com/hoangnguyenba/webapi/pkg/entity"

var CarTableDef = Table[entity.Car]{
	Name:    CarTable,
	Columns: []string{"car_name"},
	Fields: func(c *entity.Car) []any {
		return []any{&c.ID, &c.Name}
	},
	Values: func(c *entity.Car) []any {
		return []any{c.Name}
	},
	Key: func(c *entity.Car) int32 { return c.ID },
}

var UserTableDef = Table[entity.User]{
	Name:    UserTable,
	Columns: []string{"usr_name", "usr_password"},
	Fields: func(u *entity.User) []any {
		return []any{&u.ID, &u.Name, &u.Password}
	},
	Values: func(u *entity.User) []any {
		return []any{u.Name, u.Password}
	},
	Key: func(u *entity.User) int32 { return u.ID },
}

var SubscriptionTableDef = Table[entity.Subscription]{
	Name:    SubscriptionTable,
	Columns: []string{"object_name", "event_name", "call_back"},
	Fields: func(s *entity.Subscription) []any {
		return []any{&s.ID, &s.ObjectName, &s.EventName, &s.Callback}
	},
	Values: func(s *entity.Subscription) []any {
		return []any{s.ObjectName, s.EventName, s.Callback}
	},
	Key: func(s *entity.Subscription) int32 { return s.ID },
}

var ErrorTableDef = Table[entity.ErrorDef]{
	Name:    ErrorTable,
	Columns: []string{"error_name"},
	Fields: func(e *entity.ErrorDef) []any {
		return []any{&e.ID, &e.Name}
	},
	Values: func(e *entity.ErrorDef) []any {
		return []any{e.Name}
	},
	Key: func(e *entity.ErrorDef) int32 { return e.ID },
}
