package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// ValidateCmd runs a full build without writing output, history or
// announcements.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	cfg, logger, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(cfg, logger, "", false)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.build(ctx)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		fmt.Printf("FAIL %s\n", f.Error())
	}
	fmt.Println(res.Manifest.Summary())
	return rejectedError(res)
}
