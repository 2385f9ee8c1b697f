package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ormasoftchile/subcheck/pkg/check"
	"github.com/ormasoftchile/subcheck/pkg/reference"
	"github.com/ormasoftchile/subcheck/pkg/submission"
)

// --- order ---

func newOrderCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Check that submission indices are in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := o.loadSubmission()
			if err != nil {
				return err
			}
			res, err := o.runOrder(cmd, sub)
			if err != nil {
				return err
			}
			return o.enforce(res, nil)
		},
	}
}

// --- missing ---

func newMissingCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "missing",
		Aliases: []string{"complete"},
		Short:   "Compare submission indices against the reference index set",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := o.loadSubmission()
			if err != nil {
				return err
			}
			res, err := o.runCompleteness(cmd, sub)
			if err != nil {
				return err
			}
			return o.enforce(nil, res)
		},
	}
}

// --- all ---

func newAllCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the order and completeness checks over one load of the submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := o.loadSubmission()
			if err != nil {
				return err
			}
			order, err := o.runOrder(cmd, sub)
			if err != nil {
				return err
			}
			comp, err := o.runCompleteness(cmd, sub)
			if err != nil {
				return err
			}
			return o.enforce(order, comp)
		},
	}
}

func (o *options) loadSubmission() (*submission.Submission, error) {
	sub, err := submission.LoadFile(o.cfg.Submission)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Submission loaded",
		zap.String("path", sub.Path),
		zap.Int("records", sub.Len()))
	return sub, nil
}

func (o *options) runOrder(cmd *cobra.Command, sub *submission.Submission) (*check.OrderResult, error) {
	res, err := check.Order(sub)
	if err != nil {
		return nil, err
	}
	rep, err := o.reporter(cmd)
	if err != nil {
		return nil, err
	}
	if err := rep.Order(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *options) runCompleteness(cmd *cobra.Command, sub *submission.Submission) (*check.CompletenessResult, error) {
	ref, err := reference.LoadFile(o.cfg.Reference, o.cfg.Column)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("Reference loaded",
		zap.String("path", ref.Path),
		zap.String("column", ref.Column),
		zap.Int("rows", ref.Rows),
		zap.Int("unique", ref.Len()))

	res, err := check.Completeness(sub, ref)
	if err != nil {
		return nil, err
	}
	rep, err := o.reporter(cmd)
	if err != nil {
		return nil, err
	}
	if err := rep.Completeness(res); err != nil {
		return nil, err
	}
	return res, nil
}

// enforce applies the failure policy to the results of the checks that ran.
func (o *options) enforce(order *check.OrderResult, comp *check.CompletenessResult) error {
	fails, err := o.policy.Fails(order, comp)
	if err != nil {
		return err
	}
	if fails {
		o.logger.Info("Failure policy triggered", zap.String("fail_when", o.policy.String()))
		return fmt.Errorf("submission check failed (fail_when: %s)", o.policy)
	}
	return nil
}
