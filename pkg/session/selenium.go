package session

import (
	"fmt"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// locators maps each selector kind to a Selenium locator. This is the only
// place that knows about the page's markup.
var locators = map[Selector]struct {
	by    string
	value string
}{
	SelNext:         {selenium.ByCSSSelector, "button[aria-label='Continue to next step']"},
	SelReview:       {selenium.ByCSSSelector, "button[aria-label='Review your application']"},
	SelSubmit:       {selenium.ByCSSSelector, "button[aria-label='Submit application']"},
	SelError:        {selenium.ByCSSSelector, ".artdeco-inline-feedback__message"},
	SelUploadResume: {selenium.ByXPATH, "//*[contains(@id, 'jobs-document-upload-file-input-upload-resume')]"},
	SelUploadCover:  {selenium.ByXPATH, "//*[contains(@id, 'jobs-document-upload-file-input-upload-cover-letter')]"},
	SelFollow:       {selenium.ByCSSSelector, "label[for='follow-company-checkbox']"},
	SelFields:       {selenium.ByCSSSelector, ".jobs-easy-apply-form-section__grouping"},
	SelRadio:        {selenium.ByCSSSelector, "input[type='radio']"},
	SelMulti:        {selenium.ByXPATH, "//*[contains(@id, 'text-entity-list-form-component')]"},
	SelText:         {selenium.ByCSSSelector, ".artdeco-text-input--input"},
	SelApplyButton:  {selenium.ByXPATH, "//button[contains(@class, 'jobs-apply-button')]"},
	SelJobCards:     {selenium.ByXPATH, "//div[@data-job-id]"},
	SelRecruiter:    {selenium.ByCSSSelector, "div.jobs-poster a[href*='/in/']"},
	SelConnect:      {selenium.ByXPATH, "//button[contains(text(), 'Connect') or @aria-label='Invite to connect']"},
	SelAddNote:      {selenium.ByXPATH, "//button[contains(text(), 'Add a note')]"},
	SelNoteText:     {selenium.ByCSSSelector, "textarea[name='message']"},
	SelSendInvite:   {selenium.ByXPATH, "//button[contains(text(), 'Send') or contains(text(), 'Send invitation')]"},
	SelUsername:     {selenium.ByCSSSelector, "#username"},
	SelPassword:     {selenium.ByCSSSelector, "#password"},
	SelLoginSubmit:  {selenium.ByCSSSelector, "button[type='submit']"},
}

// WebDriver is a Navigator over a remote Selenium session (chromedriver,
// selenium-server et al).
type WebDriver struct {
	wd selenium.WebDriver
}

var _ Navigator = (*WebDriver)(nil)

// Connect creates a browser session against serverURL.
func Connect(serverURL string) (*WebDriver, error) {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Args: []string{
			"--start-maximized",
			"--ignore-certificate-errors",
			"--no-sandbox",
			"--disable-extensions",
			"--disable-blink-features=AutomationControlled",
		},
	})
	wd, err := selenium.NewRemote(caps, serverURL)
	if err != nil {
		return nil, fmt.Errorf("create selenium session: %w", err)
	}
	return &WebDriver{wd: wd}, nil
}

// Close ends the session and closes the browser.
func (w *WebDriver) Close() error { return w.wd.Quit() }

func (w *WebDriver) GoTo(url string) error { return w.wd.Get(url) }

func (w *WebDriver) Title() string {
	title, err := w.wd.Title()
	if err != nil {
		return ""
	}
	return title
}

func (w *WebDriver) PageSource() string {
	src, err := w.wd.PageSource()
	if err != nil {
		return ""
	}
	return src
}

func (w *WebDriver) PageText() string {
	text, err := ExtractText(w.PageSource())
	if err != nil {
		return ""
	}
	return text
}

func (w *WebDriver) Find(sel Selector) []Control {
	loc, ok := locators[sel]
	if !ok {
		return nil
	}
	els, err := w.wd.FindElements(loc.by, loc.value)
	if err != nil {
		return nil
	}
	return wrap(els)
}

func wrap(els []selenium.WebElement) []Control {
	controls := make([]Control, 0, len(els))
	for _, el := range els {
		controls = append(controls, &wdElement{el: el})
	}
	return controls
}

// wdElement is a Control bound to one remote element.
type wdElement struct {
	el selenium.WebElement
}

var _ Control = (*wdElement)(nil)

func (e *wdElement) IsPresent() bool {
	shown, err := e.el.IsDisplayed()
	return err == nil && shown
}

func (e *wdElement) Text() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *wdElement) Click() error { return e.el.Click() }

func (e *wdElement) SendText(value string) error { return e.el.SendKeys(value) }

func (e *wdElement) Attr(name string) string {
	value, err := e.el.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}

func (e *wdElement) Find(sel Selector) []Control {
	loc, ok := locators[sel]
	if !ok {
		return nil
	}
	els, err := e.el.FindElements(loc.by, loc.value)
	if err != nil {
		return nil
	}
	return wrap(els)
}
