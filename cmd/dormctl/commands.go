package main

import (
	"fmt"     // Output formatting
	"os"      // Password from the environment
	"strconv" // Argument parsing

	"dorm_booking/internal/db"       // Schema migration
	"dorm_booking/internal/ledger"   // Room inventory
	"dorm_booking/internal/notify"   // Template store for confirmations
	"dorm_booking/internal/seed"     // YAML seeding
	"dorm_booking/internal/workflow" // Booking confirmation

	"github.com/spf13/cobra" // CLI framework
)

func seedCmd(e *env) *cobra.Command {
	var (
		file    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load rooms, email templates and staff accounts from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := db.Migrate(e.db); err != nil {
					return err
				}
			}
			fh, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer fh.Close()
			doc, err := seed.Load(fh)
			if err != nil {
				return err
			}
			sum, err := seed.Apply(cmd.Context(), e.db, doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rooms: %d, templates: %d, staff: %d, skipped: %d\n",
				sum.Rooms, sum.Templates, sum.Staff, sum.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "Seed file path (YAML)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run the schema migration first")
	return cmd
}

func createAdminCmd(e *env) *cobra.Command {
	var s seed.Staff
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin or IT account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.Password == "" {
				s.Password = os.Getenv("DORMCTL_PASSWORD")
			}
			u, err := seed.CreateStaff(cmd.Context(), e.db, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %d for %s\n", u.Role, u.UserID, u.FullName())
			return nil
		},
	}
	cmd.Flags().Int64Var(&s.UserID, "user-id", 0, "Staff ID used to log in")
	cmd.Flags().StringVar(&s.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&s.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&s.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&s.Role, "role", "Admin", "Admin or IT")
	cmd.Flags().StringVar(&s.Password, "password", "", "Password (default $DORMCTL_PASSWORD)")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func confirmBookingCmd(e *env) *cobra.Command {
	var staffName string
	cmd := &cobra.Command{
		Use:   "confirm-booking <application-id>",
		Short: "Book the room of an application whose payment was reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil {
				return fmt.Errorf("application id %q: %w", args[0], err)
			}
			transport, err := notify.NewTransport(e.cfg.Mail)
			if err != nil {
				return err
			}
			dispatcher := notify.NewDispatcher(notify.NewTemplateStore(e.db), transport)
			svc := workflow.NewService(e.db, nil, dispatcher) // Receipts are not touched here
			out, err := svc.ConfirmBooking(cmd.Context(), staffName, uint(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "application %d booked; room %d has %d of %d available\n",
				out.Application.ID, out.Room.ID, out.Room.AvailableRooms, out.Room.TotalRooms)
			if out.NotifyErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: applicant not notified: %v\n", out.NotifyErr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&staffName, "staff-name", "Housing Office", "Name signed into the email")
	return cmd
}

func ledgerCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the room availability ledger",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "List rooms whose counts break available = total - booked",
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := ledger.New(e.db).Audit(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rooms {
				fmt.Fprintf(cmd.OutOrStdout(), "room %d: total %d, booked %d, available %d\n",
					r.ID, r.TotalRooms, r.BookedRooms, r.AvailableRooms)
			}
			if len(rooms) > 0 {
				return fmt.Errorf("%d unbalanced rooms", len(rooms))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ledger balanced")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rebalance [room-id...]",
		Short: "Recompute available rooms; every unbalanced room when no id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := ledger.New(e.db)
			var ids []uint
			for _, a := range args {
				id, err := strconv.ParseUint(a, 10, 0)
				if err != nil {
					return fmt.Errorf("room id %q: %w", a, err)
				}
				ids = append(ids, uint(id))
			}
			if len(ids) == 0 {
				rooms, err := l.Audit(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range rooms {
					ids = append(ids, r.ID)
				}
			}
			for _, id := range ids {
				if err := l.Rebalance(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "room %d rebalanced\n", id)
			}
			return nil
		},
	})
	return cmd
}
