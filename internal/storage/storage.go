// Package storage loads dialogue profiles and passenger rosters from a data
// directory laid out as:
//
//	<dataDir>/profiles/<id>.json|.yaml
//	<dataDir>/passengers.json|.yaml
package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPassengersNotFound = errors.New("passenger roster not found")
)

// Store is the content store the console host loads its world from.
type Store interface {
	// ListProfiles maps profile ids to the file that defines them.
	ListProfiles(ctx context.Context) (map[string]string, error)
	GetProfile(ctx context.Context, id string) (*dialogue.Profile, error)
	// LoadPassengers returns the authored passengers with their profiles resolved.
	LoadPassengers(ctx context.Context) ([]*passenger.Passenger, error)
}

// PassengerSpec is one authored passenger in the roster file.
type PassengerSpec struct {
	ID      int            `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Kind    passenger.Kind `json:"kind" yaml:"kind"`
	Profile string         `json:"profile" yaml:"profile"`
}
