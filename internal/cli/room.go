package cli

import (
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	roomCmd := &cobra.Command{
		Use:   "room",
		Short: "Room operations",
	}

	roomCmd.AddCommand(newRoomGetCmd())
	roomCmd.AddCommand(newRoomJoinCmd())

	return roomCmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get("/api/rooms/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <player-name> <country>",
		Short: "Create a player and seat them in a room with free capacity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result JoinResult

			body := map[string]string{"playerName": args[0], "country": args[1]}
			if err := client.Post("/api/rooms/join", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
