// Package dashboard aggregates the per-module statistics shown on the admin
// landing page.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/genesislab/siteadmin/internal/applications"
	"github.com/genesislab/siteadmin/internal/contacts"
	"github.com/genesislab/siteadmin/internal/jobposts"
	"github.com/genesislab/siteadmin/internal/teams"
)

const requestTimeout = 3 * time.Second

type (
	JobStats         interface{ Statistics(context.Context) (jobposts.Statistics, error) }
	ApplicationStats interface{ Statistics(context.Context) (applications.Statistics, error) }
	ContactStats     interface{ Statistics(context.Context) (contacts.Statistics, error) }
	TeamStats        interface{ Statistics(context.Context) (teams.Statistics, error) }
)

// Summary is the combined dashboard payload.
type Summary struct {
	Jobs         jobposts.Statistics     `json:"jobs"`
	Applications applications.Statistics `json:"applications"`
	Contacts     contacts.Statistics     `json:"contacts"`
	Teams        teams.Statistics        `json:"teams"`
}

// Service collects module statistics.
type Service struct {
	jobs         JobStats
	applications ApplicationStats
	contacts     ContactStats
	teams        TeamStats
}

// NewService constructs a Service.
func NewService(jobs JobStats, apps ApplicationStats, contacts ContactStats, teams TeamStats) *Service {
	return &Service{jobs: jobs, applications: apps, contacts: contacts, teams: teams}
}

// Summary queries every module concurrently. The first failure cancels the
// rest and is returned.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var out Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.jobs.Statistics(ctx)
		out.Jobs = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.applications.Statistics(ctx)
		out.Applications = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.contacts.Statistics(ctx)
		out.Contacts = stats
		return err
	})
	g.Go(func() error {
		stats, err := s.teams.Statistics(ctx)
		out.Teams = stats
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}
