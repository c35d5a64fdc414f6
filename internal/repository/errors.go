package repository

import "errors"

// ErrNotFound is returned when a query for a single relay record finds no
// rows. The service layer translates it into app_errors.ErrNotFound so the
// API never sees sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
