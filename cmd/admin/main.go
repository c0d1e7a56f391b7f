package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/table"
	"golang.org/x/term"
)

var command = flag.String("c", "user", "specifies the command (user, chips)")

func main() {
	flag.Parse()

	switch *command {
	case "user":
		createUser()
	case "chips":
		creditChips()
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func createUser() {
	email := getEmail()
	if email == "" {
		os.Exit(1)
	}

	password := getPassword()
	if password == "" {
		os.Exit(1)
	}

	player, err := table.CreatePlayer(context.Background(), email, "Admin", password, "127.0.0.1")
	if err != nil {
		logrus.WithError(err).Fatal("could not create player")
	}

	fmt.Printf("Created user %d\n", player.ID)

	name, err := getInput("Name")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}
	player.DisplayName = name
	player.Verified = true
	if err := player.Save(context.Background()); err != nil {
		logrus.WithError(err).Fatal("could not save player")
	}

	promote, err := getInput("Make admin (Y/n)")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	if promote == "" || strings.ToLower(promote)[0] == 'y' {
		if err := player.SetIsSiteAdmin(context.Background(), true); err != nil {
			logrus.WithError(err).Fatal("could not promote user to admin")
		}

		fmt.Printf("User promoted to admin\n")
	}
}

// creditChips adjusts a player's chip balance in a room through the
// chips_log ledger
func creditChips() {
	ctx := context.Background()

	roomUUID, err := getInput("Room UUID")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	rm, err := table.GetRoomByUUID(ctx, roomUUID)
	if err != nil {
		logrus.WithError(err).Fatal("could not find room")
	}

	playerIDStr, err := getInput("Player ID")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	playerID, err := strconv.ParseInt(playerIDStr, 10, 64)
	if err != nil {
		logrus.WithError(err).Fatal("invalid player ID")
	}

	player, err := table.GetPlayerByID(ctx, playerID)
	if err != nil {
		logrus.WithError(err).Fatal("could not find player")
	}

	playerRoom, err := player.GetPlayerRoom(ctx, rm)
	if err != nil {
		logrus.WithError(err).Fatal("could not find player in room")
	}

	amountStr, err := getInput("Amount")
	if err != nil {
		logrus.WithError(err).Fatal("could not get answer")
	}

	amount, err := strconv.Atoi(amountStr)
	if err != nil {
		logrus.WithError(err).Fatal("invalid amount")
	}

	if err := playerRoom.AdjustChips(ctx, amount, "admin credit", nil); err != nil {
		logrus.WithError(err).Fatal("could not adjust chips")
	}

	fmt.Printf("Player %d now has %d chips\n", player.ID, playerRoom.Chips)
}

func getPassword() string {
	for {
		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(0)
		if err != nil {
			continue
		}
		fmt.Println("")

		password := strings.TrimRight(string(pwBytes), "\r\n")

		if password == "" {
			return ""
		}

		if len(password) < 6 {
			_, _ = fmt.Fprintf(os.Stderr, "password must be 6 or more characters\n")
			continue
		}

		return password
	}
}

func getEmail() string {
	for {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		str, err := reader.ReadString('\n')
		if err != nil {
			logrus.WithError(err).Warn("could not read email")
		}

		str = strings.TrimRight(str, "\r\n")

		if str == "" {
			return ""
		}

		if err := checkmail.ValidateFormat(str); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			continue
		}

		return str
	}
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}
