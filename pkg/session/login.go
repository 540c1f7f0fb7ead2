package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// LoginURL is the sign-in page.
const LoginURL = "https://www.linkedin.com/login?trk=guest_homepage-basic_nav-header-signin"

// Login signs the session in. The post-submit sleep leaves room for a
// manual second-factor challenge.
func Login(nav Navigator, username, password string, sleep func(time.Duration)) error {
	if sleep == nil {
		sleep = time.Sleep
	}
	log.Info().Msg("logging in, please wait")
	if err := nav.GoTo(LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	sleep(3 * time.Second)

	user := First(nav, SelUsername)
	pass := First(nav, SelPassword)
	button := First(nav, SelLoginSubmit)
	if user == nil || pass == nil || button == nil {
		return fmt.Errorf("login form not found")
	}
	if err := user.SendText(username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	sleep(2 * time.Second)
	if err := pass.SendText(password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	sleep(2 * time.Second)
	if err := button.Click(); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	// Give the user time to answer a second-factor prompt.
	sleep(15 * time.Second)
	return nil
}
