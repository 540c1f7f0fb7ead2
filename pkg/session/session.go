// Package session abstracts the browser session the apply engine drives.
//
// The engine never assumes a specific markup language; it only depends on
// this capability set, so tests (and future non-Selenium backends) can
// provide their own implementation.
package session

// Selector names a kind of control on the current page. The concrete
// backend maps each kind to whatever locator strategy it needs.
type Selector string

// The control universe of the easy-apply flow. Which of these are present
// at any given moment is discovered per poll, not assumed.
const (
	SelNext         Selector = "next"
	SelReview       Selector = "review"
	SelSubmit       Selector = "submit"
	SelError        Selector = "error"
	SelUploadResume Selector = "upload_resume"
	SelUploadCover  Selector = "upload_cover_letter"
	SelFollow       Selector = "follow"
	SelFields       Selector = "fields"
	SelRadio        Selector = "radio_select"
	SelMulti        Selector = "multi_select"
	SelText         Selector = "text_select"
	SelApplyButton  Selector = "apply_button"
	SelJobCards     Selector = "job_cards"
	SelRecruiter    Selector = "recruiter_link"
	SelConnect      Selector = "connect"
	SelAddNote      Selector = "add_note"
	SelNoteText     Selector = "note_text"
	SelSendInvite   Selector = "send_invite"
	SelUsername     Selector = "username"
	SelPassword     Selector = "password"
	SelLoginSubmit  Selector = "login_submit"
)

// Control is one interactable element on the page.
type Control interface {
	IsPresent() bool
	Text() string
	Click() error
	SendText(value string) error
	// Attr returns a named attribute, empty when absent.
	Attr(name string) string
	// Find scopes a lookup to this control's subtree.
	Find(sel Selector) []Control
}

// Navigator is the single logical browser session. All form interaction is
// serialized through one Navigator; it is owned exclusively by the engine
// for the duration of one job.
type Navigator interface {
	GoTo(url string) error
	Title() string
	// PageText returns the visible text of the current page.
	PageText() string
	// PageSource returns the raw markup of the current page.
	PageSource() string
	Find(sel Selector) []Control
}

// Present reports whether at least one control matches sel.
func Present(nav Navigator, sel Selector) bool {
	return len(nav.Find(sel)) > 0
}

// First returns the first control matching sel, or nil.
func First(nav Navigator, sel Selector) Control {
	controls := nav.Find(sel)
	if len(controls) == 0 {
		return nil
	}
	return controls[0]
}
