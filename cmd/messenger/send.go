package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sangkips/template-dispatch-service/internal/domains/messages"
	"github.com/sangkips/template-dispatch-service/internal/domains/recipients"
	"github.com/sangkips/template-dispatch-service/internal/mailer"
)

func init() {
	rootCmd.AddCommand(sendCmd)

	f := sendCmd.Flags()
	f.StringP("input-file", "i", "", "input file (file mode needs both --input-file and --output-file)")
	f.StringP("output-file", "o", "", "output file")
	f.StringSlice("recipients", nil, "recipient addresses")
	f.String("transport", "log", "mail transport (log, rabbitmq, resend)")
	f.String("mail-subject", "Notification", "subject used by the resend transport")
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Read input, render the template and mail the result",
	Long: `Read the input (a file pair, or one line from stdin), bind it as #{input},
render the template, write the result and hand it to the mail transport.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		transport, closeTransport, err := mailer.FromConfig(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeTransport(); err != nil {
				log.Error().Err(err).Msg("failed to close transport")
			}
		}()

		messenger := messages.NewMessenger(transport, engine,
			messages.WithConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
			messages.WithIOFiles(cfg.InputFile, cfg.OutputFile),
		)
		client := recipients.NewClient(cfg.Recipients...)

		if _, err := messenger.Send(cmd.Context(), client, tmpl); err != nil {
			return err
		}
		return nil
	},
}
