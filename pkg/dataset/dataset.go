// Package dataset binds a model-described object (table, file, blob) to a
// connection so the external workflow engine can run existence checks
// before scheduling work against it.
package dataset

import (
	"context"

	"go.uber.org/zap"

	"github.com/ddeutils/flowext/pkg/conn"
	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/logger"
	"github.com/ddeutils/flowext/pkg/models"
)

// Dataset is an object behind a connection: a relation for database
// dialects, a file path for filesystem-like dialects, an object key for
// bucket stores. The optional Table carries the declared column model.
type Dataset struct {
	Conn   conn.Conn
	Object string
	// Table is the declared shape of the dataset, when configuration
	// provides one. Nil otherwise.
	Table *models.Table
}

// New constructs a dataset descriptor.
func New(c conn.Conn, object string, table *models.Table) (Dataset, error) {
	if err := c.Validate(); err != nil {
		return Dataset{}, err
	}
	if object == "" {
		return Dataset{}, flowerrors.New(flowerrors.ErrorTypeValidation,
			"dataset object name must not be empty").WithField("object")
	}
	return Dataset{Conn: c, Object: object, Table: table}, nil
}

// Exists reports whether the object exists behind the connection. A fresh
// adapter is built per call; nothing is cached on the descriptor.
func (d Dataset) Exists(ctx context.Context) (bool, error) {
	adapter, err := conn.Open(d.Conn)
	if err != nil {
		return false, err
	}
	ok, err := adapter.Exists(ctx, d.Object)
	if err != nil {
		return false, err
	}
	logger.Debug("dataset existence checked",
		zap.String("dialect", d.Conn.Dialect),
		zap.String("object", d.Object),
		zap.Bool("exists", ok))
	return ok, nil
}

// Ping reports whether the dataset's connection is usable.
func (d Dataset) Ping(ctx context.Context) (bool, error) {
	adapter, err := conn.Open(d.Conn)
	if err != nil {
		return false, err
	}
	return adapter.Ping(ctx)
}

// Columns returns the declared columns, or nil when the dataset carries no
// table model.
func (d Dataset) Columns() []models.Column {
	if d.Table == nil {
		return nil
	}
	return d.Table.Columns()
}
