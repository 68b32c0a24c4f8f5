package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/mahalla/internal/application"
)

func newHashPasswordCmd() *cobra.Command {
	params := application.DefaultArgon2idParams

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print an argon2id digest for MAHALLA_ADMIN_PASSWORD_HASH",
		Long: `Print an argon2id digest suitable for MAHALLA_ADMIN_PASSWORD_HASH.
Without an argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			digest, err := application.CreatePasswordHash(password, params)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}

	cmd.Flags().Uint32Var(&params.Memory, "memory", params.Memory, "argon2id memory in KiB")
	cmd.Flags().Uint32Var(&params.Iterations, "iterations", params.Iterations, "argon2id passes")
	cmd.Flags().Uint8Var(&params.Parallelism, "parallelism", params.Parallelism, "argon2id lanes")
	return cmd
}
