// Package recruiter sends a connection invite to the poster of a job after
// a successful application. Everything here is best-effort: a failed invite
// is logged and forgotten, it never affects the application outcome.
package recruiter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/intizar/easyapply/pkg/session"
)

// noteLimit is the remote service's invite note character limit.
const noteLimit = 300

// Identity is the operator identity templated into invite notes.
type Identity struct {
	Name     string
	Headline string
}

// Connector locates a recruiter link on the current job page and sends an
// invite with a personalized note.
type Connector struct {
	nav      session.Navigator
	identity Identity
	sleep    func(time.Duration)
}

func New(nav session.Navigator, identity Identity) *Connector {
	return &Connector{nav: nav, identity: identity, sleep: time.Sleep}
}

// SetSleep overrides the sleep function, for tests.
func (c *Connector) SetSleep(fn func(time.Duration)) { c.sleep = fn }

// Connect finds the recruiter for the current job page and sends an invite.
// It returns false when no recruiter was found or the invite could not be
// sent; both are normal.
func (c *Connector) Connect(positionTitle string) bool {
	link := c.findRecruiterLink()
	if link == nil {
		log.Info().Msg("no recruiter information found for this job")
		return false
	}

	name := strings.TrimSpace(link.Text())
	url := link.Attr("href")
	log.Info().Str("recruiter", name).Str("position", positionTitle).Msg("found recruiter")

	if err := c.nav.GoTo(url); err != nil {
		log.Warn().Str("url", url).Err(err).Msg("could not open recruiter profile")
		return false
	}
	c.sleep(2 * time.Second)

	connect := session.First(c.nav, session.SelConnect)
	if connect == nil {
		log.Warn().Str("recruiter", name).Msg("connect button not found")
		return false
	}
	if err := connect.Click(); err != nil {
		log.Warn().Str("recruiter", name).Err(err).Msg("connect click failed")
		return false
	}

	c.addNote(name, positionTitle)

	send := session.First(c.nav, session.SelSendInvite)
	if send == nil {
		log.Warn().Str("recruiter", name).Msg("send button not found")
		return false
	}
	if err := send.Click(); err != nil {
		log.Warn().Str("recruiter", name).Err(err).Msg("sending invite failed")
		return false
	}
	log.Info().Str("recruiter", name).Msg("connection invite sent")
	return true
}

func (c *Connector) findRecruiterLink() session.Control {
	for _, link := range c.nav.Find(session.SelRecruiter) {
		url := link.Attr("href")
		if url == "" || strings.TrimSpace(link.Text()) == "" {
			continue
		}
		// Skip company pages, only person profiles qualify.
		if strings.Contains(url, "/company/") {
			continue
		}
		return link
	}
	return nil
}

// addNote attaches a personalized note when the affordance exists; invites
// without a note are still sent.
func (c *Connector) addNote(recruiterName, positionTitle string) {
	addNote := session.First(c.nav, session.SelAddNote)
	if addNote == nil {
		return
	}
	if err := addNote.Click(); err != nil {
		log.Debug().Err(err).Msg("could not add note to invite")
		return
	}
	noteField := session.First(c.nav, session.SelNoteText)
	if noteField == nil {
		return
	}
	if err := noteField.SendText(c.Note(recruiterName, positionTitle)); err != nil {
		log.Debug().Err(err).Msg("could not type invite note")
	}
}

// Note builds the invite text, truncating the position wording to stay
// under the note limit.
func (c *Connector) Note(recruiterName, positionTitle string) string {
	first := recruiterName
	if i := strings.IndexByte(recruiterName, ' '); i > 0 {
		first = recruiterName[:i]
	}
	msg := fmt.Sprintf("Hi %s. I'm %s, %s. I saw your post about a %s opening and believe it's a strong match. I'd be glad to share more.",
		first, c.identity.Name, c.identity.Headline, positionTitle)
	if len(msg) > noteLimit-1 {
		msg = fmt.Sprintf("Hi %s. I'm %s, %s. I saw your %s post and believe it's a strong match.",
			first, c.identity.Name, c.identity.Headline, positionTitle)
	}
	if len(msg) > noteLimit-1 {
		msg = msg[:noteLimit-1]
	}
	return msg
}
