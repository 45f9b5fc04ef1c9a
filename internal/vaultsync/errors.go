package vaultsync

import "errors"

var (
	ErrNoRemoteURL = errors.New("remote url is required")
	ErrNoLocalPath = errors.New("local path is required")

	ErrRepoNotFound   = errors.New("vault mirror not found")
	ErrCloneFailed    = errors.New("failed to clone vault mirror")
	ErrPullFailed     = errors.New("failed to pull vault mirror updates")
	ErrSyncInProgress = errors.New("vault sync already in progress")
)
