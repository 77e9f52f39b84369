package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Web vault steps. The shared HTTP client carries the session cookie between
// steps, so a scenario reads like one browser session.

func (s *StepsContext) iLogInToTheWebVault(master string) error {
	form := url.Values{"master_passwd": {master}}
	resp, err := s.tc.HTTPClient.PostForm(s.tc.Web.ServerURL+"/login", form)
	if err != nil {
		return err
	}

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

func (s *StepsContext) theLoginIsRejected() error {
	if s.response == nil {
		return fmt.Errorf("no login attempt was made")
	}
	if s.response.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("expected status %d, got %d", http.StatusUnauthorized, s.response.StatusCode)
	}
	return nil
}

func (s *StepsContext) theCredentialListingIncludes(name string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.Web.ServerURL + "/api/credentials")
	if err != nil {
		return err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", resp.StatusCode, string(body))
	}

	var summaries []struct {
		Name      string   `json:"name"`
		Mnemonics []string `json:"mnemonics"`
	}
	if err := json.Unmarshal(body, &summaries); err != nil {
		return fmt.Errorf("failed to parse listing: %w", err)
	}
	for _, summary := range summaries {
		if summary.Name == name {
			return nil
		}
	}
	return fmt.Errorf("listing does not include %q: %s", name, string(body))
}

func (s *StepsContext) fetchingOverTheAPIReturns(alias, expected string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.Web.ServerURL + "/api/credentials/" + url.PathEscape(alias))
	if err != nil {
		return err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", resp.StatusCode, string(body))
	}

	var cred struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(body, &cred); err != nil {
		return fmt.Errorf("failed to parse credential: %w", err)
	}
	if got := cred.Fields["password"]; got != expected {
		return fmt.Errorf("expected password %q, got %q", expected, got)
	}
	return nil
}

func (s *StepsContext) theAPIAnswersUnauthorized(alias string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.Web.ServerURL + "/api/credentials/" + url.PathEscape(alias))
	if err != nil {
		return err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("expected status %d, got %d: %s", http.StatusUnauthorized, resp.StatusCode, string(body))
	}
	return nil
}

func (s *StepsContext) theHealthEndpointReportsOk() error {
	resp, err := s.tc.HTTPClient.Get(s.tc.Web.ServerURL + "/health")
	if err != nil {
		return err
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected status 200, got %d: %s", resp.StatusCode, string(body))
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		return fmt.Errorf("unexpected health body: %s", string(body))
	}
	return nil
}
