package services

import (
	"context"

	"loadlink_backend/internal/geo"
	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/repositories"
)

// MatchCandidate is one user whose service areas cover a load, together
// with the channel resolution already applied.
type MatchCandidate struct {
	User         models.User
	EmailEnabled bool
}

type MatchingService interface {
	// FindMatches returns every user that should be alerted about a newly
	// posted load: active users (excluding the owner) with at least one
	// service area whose radius covers the load's pickup zip, filtered by
	// load type against role and alert preferences. A load whose pickup
	// zip cannot be geocoded matches nobody.
	FindMatches(ctx context.Context, load *models.Load) ([]MatchCandidate, error)
}

type MatchingServiceImpl struct {
	userRepo repositories.UserRepository
	resolver geo.Resolver
}

func NewMatchingService(userRepo repositories.UserRepository, resolver geo.Resolver) MatchingService {
	return &MatchingServiceImpl{
		userRepo: userRepo,
		resolver: resolver,
	}
}

func (s *MatchingServiceImpl) FindMatches(ctx context.Context, load *models.Load) ([]MatchCandidate, error) {
	loadCoord, err := s.resolver.Resolve(ctx, load.PickupZip)
	if err != nil {
		// Unknown or unreachable zip: skip matching entirely rather than
		// failing the load posting.
		logger.Warn("Could not geocode load pickup zip, skipping matching",
			"load_id", load.ID, "zip", load.PickupZip, "error", err)
		return nil, nil
	}

	candidates, err := s.userRepo.FindAlertCandidates(load.OwnerID)
	if err != nil {
		return nil, err
	}

	var matches []MatchCandidate
	for i := range candidates {
		candidate := &candidates[i]

		pref := effectivePreference(candidate)
		if !s.wantsLoadType(candidate, pref, load.Type) {
			continue
		}

		if !s.coveredByAnyArea(ctx, candidate, loadCoord) {
			continue
		}

		matches = append(matches, MatchCandidate{
			User:         *candidate,
			EmailEnabled: pref.EmailEnabled,
		})
	}

	logger.Debug("Load matching finished",
		"load_id", load.ID, "candidates", len(candidates), "matches", len(matches))

	return matches, nil
}

// wantsLoadType applies the per-type gate: broker postings go to users
// who opted into RFP alerts, carrier demands go to carriers, and truck
// capacity postings go to users who opted into open-truck alerts.
func (s *MatchingServiceImpl) wantsLoadType(user *models.User, pref *models.AlertPreference, loadType models.LoadType) bool {
	switch loadType {
	case models.LoadTypeBrokerPost:
		return pref.RfpAlerts
	case models.LoadTypeCarrierDemand:
		return user.Role == models.UserRoleCarrier
	case models.LoadTypeTruckCapacity:
		return pref.OpenTruckAlerts
	default:
		return false
	}
}

// coveredByAnyArea reports whether any of the user's service areas covers
// the load coordinates. The first covering area decides; areas whose zip
// fails to geocode are skipped.
func (s *MatchingServiceImpl) coveredByAnyArea(ctx context.Context, user *models.User, loadCoord geo.Coordinates) bool {
	for _, area := range user.ServiceAreas {
		areaCoord, err := s.resolver.Resolve(ctx, area.ZipCode)
		if err != nil {
			logger.Debug("Could not geocode service area zip, skipping area",
				"user_id", user.ID, "zip", area.ZipCode, "error", err)
			continue
		}
		if geo.Haversine(loadCoord, areaCoord) <= area.Radius {
			return true
		}
	}
	return false
}

// effectivePreference fills in defaults when the user never saved a
// preference row: email on, RFP alerts on, open-truck alerts off.
func effectivePreference(user *models.User) *models.AlertPreference {
	if user.AlertPreference != nil {
		return user.AlertPreference
	}
	return &models.AlertPreference{
		UserID:          user.ID,
		EmailEnabled:    true,
		RfpAlerts:       true,
		OpenTruckAlerts: false,
	}
}
