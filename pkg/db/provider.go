package db

import (
	"context"
	"log/slog"

	"github.com/hoangnguyenba/webapi/pkg/entity"
	"github.com/hoangnguyenba/webapi/pkg/errcode"
)

// Provider owns the shared pool, the error name table and one collection per entity.
// It is built once at startup and only read afterwards.
type Provider struct {
	Conn  *Connection
	Names errcode.Names

	Cars          *Collection[entity.Car]
	Users         *Collection[entity.User]
	Subscriptions *Collection[entity.Subscription]
	Errors        *Collection[entity.ErrorDef]
}

// NewProvider builds the collections and loads the error name table. A failing load leaves
// the table empty; it never prevents startup.
func NewProvider(ctx context.Context, conn *Connection, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Provider{Conn: conn}
	var err error
	if p.Cars, err = NewCollection(conn, CarTableDef); err != nil {
		return nil, err
	}
	if p.Users, err = NewCollection(conn, UserTableDef); err != nil {
		return nil, err
	}
	if p.Subscriptions, err = NewCollection(conn, SubscriptionTableDef); err != nil {
		return nil, err
	}
	if p.Errors, err = NewCollection(conn, ErrorTableDef); err != nil {
		return nil, err
	}

	names, err := LoadErrorNames(ctx, p.Errors)
	if err != nil {
		logger.Warn("could not load error names; replies will carry codes only", "error", err)
		names = errcode.Names{}
	}
	p.Names = names
	logger.Info("error names loaded", "count", len(names))

	return p, nil
}

// LoadErrorNames reads every row of the error table into a name table.
func LoadErrorNames(ctx context.Context, errs *Collection[entity.ErrorDef]) (errcode.Names, error) {
	defs, err := errs.Get(ctx, nil)
	if err != nil {
		return nil, err
	}
	names := make(errcode.Names, len(defs))
	for _, d := range defs {
		names[errcode.Code(d.ID)] = d.Name
	}
	return names, nil
}

// CheckSchema verifies that the entity tables exist. The error table is optional.
func (p *Provider) CheckSchema(ctx context.Context) error {
	return CheckTables(ctx, p.Conn, CarTable, UserTable, SubscriptionTable)
}

// Close closes the pool.
func (p *Provider) Close() error {
	return p.Conn.Close()
}
