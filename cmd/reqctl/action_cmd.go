package main

import (
	"context"
	"fmt"
	"strconv"

	"canna-backoffice-requests/internal/domain"

	"github.com/spf13/cobra"
)

func newActionCmd(opts *rootOptions, verb domain.Verb) *cobra.Command {
	return &cobra.Command{
		Use:   string(verb) + " <registration|plan_change> <id>",
		Short: fmt.Sprintf("%s a pending request", verbLabel(verb)),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0], args[1])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *session) error {
				return s.act(ctx, key, verb, opts.jsonOutput)
			})
		},
	}
}

func parseKey(rawType, rawID string) (domain.RequestKey, error) {
	t, err := domain.ParseRequestType(rawType)
	if err != nil {
		return domain.RequestKey{}, err
	}
	id, err := strconv.ParseInt(rawID, 10, 32)
	if err != nil || id <= 0 {
		return domain.RequestKey{}, fmt.Errorf("invalid request id %q", rawID)
	}
	return domain.RequestKey{Type: t, ID: int32(id)}, nil
}

// act resolves the key against the current pending list and dispatches the verb, then
// waits for the follow-up notification before returning.
func (s *session) act(ctx context.Context, key domain.RequestKey, verb domain.Verb, asJSON bool) error {
	req, err := s.requests.Lookup(ctx, key)
	if err != nil {
		return err
	}

	res, err := s.actions.Dispatch(ctx, req, verb)
	if s.waitFollowUps != nil {
		s.waitFollowUps()
	}
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(s.out, res)
	}
	return nil
}

func verbLabel(verb domain.Verb) string {
	if verb == domain.VerbApprove {
		return "Approve"
	}
	return "Reject"
}
