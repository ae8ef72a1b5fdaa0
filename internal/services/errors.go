package services

import "errors"

// Service errors
var (
	ErrNoDataset = errors.New("no dataset loaded")
)
