package gus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/models"
)

// flowState tracks the login flow's position in its state machine. Exactly
// one of flowSucceeded/flowFailed is reached per invocation.
type flowState string

const (
	flowIdle             flowState = "idle"
	flowAwaitingCallback flowState = "awaiting-callback"
	flowExchanging       flowState = "exchanging"
	flowSucceeded        flowState = "succeeded"
	flowFailed           flowState = "failed"
)

const defaultRedirectPath = "/OauthRedirect"

// callbackOutcome is the single-shot result of the redirect callback: either
// an authorization code or a terminal flow failure.
type callbackOutcome struct {
	code string
	err  *FlowError
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>Rogo - Login Successful</title></head>
<body style="font-family: system-ui; text-align: center; padding-top: 4em;">
<h1>Login successful</h1>
<p>You can close this window and return to your notes.</p>
</body>
</html>`

const failurePage = `<!DOCTYPE html>
<html>
<head><title>Rogo - Login Failed</title></head>
<body style="font-family: system-ui; text-align: center; padding-top: 4em;">
<h1>Login failed</h1>
<p>%s</p>
<p>Close this window and try again.</p>
</body>
</html>`

// Login runs one complete PKCE authorization flow: generate the handshake,
// stand up the transient callback listener, open the browser, wait for the
// redirect or the watchdog, then exchange the code for a token. The listener
// and the watchdog are released on every exit path.
//
// The callback wait has no caller-initiated cancellation beyond the fixed
// watchdog; ctx only bounds the token exchange round trip.
func (s *Service) Login(ctx context.Context) (*models.Credential, error) {
	flowID := common.NewFlowID()
	state := flowIdle

	transition := func(next flowState, detail string) {
		state = next
		event := s.logger.Debug().Str("flow_id", flowID).Str("state", string(state))
		if detail != "" {
			event = event.Str("detail", detail)
		}
		event.Msg("Login flow transition")
	}

	hs, err := newHandshake()
	if err != nil {
		return nil, err
	}

	redirectPath := defaultRedirectPath
	if parsed, err := url.Parse(s.opts.RedirectURI); err == nil && parsed.Path != "" {
		redirectPath = parsed.Path
	}

	authURL := s.buildAuthorizeURL(hs)

	// Bind the fixed port first: a second concurrent login loses this race
	// and must fail loudly rather than waiting.
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.opts.CallbackPort))
	if err != nil {
		transition(flowFailed, string(FailureBind))
		return nil, &FlowError{
			Reason:  FailureBind,
			Message: fmt.Sprintf("could not listen on port %d for the login callback: %v", s.opts.CallbackPort, err),
		}
	}

	// Buffered single-slot channel: whichever of callback and watchdog wins
	// delivers; the loser's send falls through the default and has no side
	// effects.
	resultCh := make(chan callbackOutcome, 1)
	deliver := func(outcome callbackOutcome) {
		select {
		case resultCh <- outcome:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(redirectPath, func(w http.ResponseWriter, r *http.Request) {
		s.handleRedirect(w, r, hs.state, deliver)
	})
	if redirectPath != "/" {
		// Unknown paths do not affect the state machine. A root redirect
		// path already owns the catch-all pattern.
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
	}

	server := &http.Server{
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Warn().Err(err).Str("flow_id", flowID).Msg("Callback listener error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Str("flow_id", flowID).Msg("Callback listener shutdown failed")
		}
		// Shutdown only closes listeners Serve has already registered; on
		// fast exit paths the Serve goroutine may not have run yet, so the
		// port must be released directly.
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn().Err(err).Str("flow_id", flowID).Msg("Callback listener close failed")
		}
	}()

	transition(flowAwaitingCallback, "")

	if err := s.browser.OpenURL(authURL); err != nil {
		transition(flowFailed, "browser-open")
		return nil, fmt.Errorf("failed to open browser for login: %w", err)
	}

	watchdog := time.NewTimer(s.opts.LoginTimeout)
	defer watchdog.Stop()

	var code string
	select {
	case outcome := <-resultCh:
		if outcome.err != nil {
			transition(flowFailed, string(outcome.err.Reason))
			return nil, outcome.err
		}
		code = outcome.code
	case <-watchdog.C:
		transition(flowFailed, string(FailureTimeout))
		return nil, &FlowError{
			Reason:  FailureTimeout,
			Message: fmt.Sprintf("no login callback received within %s", s.opts.LoginTimeout),
		}
	}

	transition(flowExchanging, "")

	payload, exchangeErr := s.exchangeCode(ctx, code, hs.verifier)
	if exchangeErr != nil {
		transition(flowFailed, string(FailureTokenExchange))
		return nil, exchangeErr
	}

	transition(flowSucceeded, "")

	instanceHost := payload.InstanceURL
	if instanceHost == "" {
		instanceHost = s.opts.InstanceHost
	}

	return &models.Credential{
		AccessToken:  payload.AccessToken,
		InstanceHost: instanceHost,
		CollectedAt:  s.now().UTC(),
	}, nil
}

// handleRedirect evaluates a request to the redirect path in the order the
// protocol demands: error param, state mismatch, missing code, success. The
// HTML page is a user-facing message, so semantic failures still answer 200.
func (s *Service) handleRedirect(w http.ResponseWriter, r *http.Request, expectedState string, deliver func(callbackOutcome)) {
	query := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if oauthErr := query.Get("error"); oauthErr != "" {
		message := query.Get("error_description")
		if message == "" {
			message = oauthErr
		}
		fmt.Fprintf(w, failurePage, message)
		deliver(callbackOutcome{err: &FlowError{Reason: FailureOAuth, Message: message}})
		return
	}

	if query.Get("state") != expectedState {
		fmt.Fprintf(w, failurePage, "invalid state parameter")
		deliver(callbackOutcome{err: &FlowError{
			Reason:  FailureInvalidState,
			Message: "login callback carried an invalid state parameter",
		}})
		return
	}

	code := query.Get("code")
	if code == "" {
		fmt.Fprintf(w, failurePage, "no authorization code received")
		deliver(callbackOutcome{err: &FlowError{
			Reason:  FailureNoCode,
			Message: "login callback carried no authorization code",
		}})
		return
	}

	fmt.Fprint(w, successPage)
	deliver(callbackOutcome{code: code})
}

// buildAuthorizeURL assembles the browser-navigated authorization URL.
func (s *Service) buildAuthorizeURL(hs *handshake) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.opts.ClientID)
	params.Set("redirect_uri", s.opts.RedirectURI)
	params.Set("code_challenge", hs.challenge)
	params.Set("code_challenge_method", "S256")
	params.Set("scope", s.opts.Scopes)
	params.Set("state", hs.state)

	return fmt.Sprintf("%s/services/oauth2/authorize?%s",
		strings.TrimSuffix(s.opts.InstanceHost, "/"), params.Encode())
}

// exchangeCode trades the authorization code plus verifier for a token
// payload at the token endpoint.
func (s *Service) exchangeCode(ctx context.Context, code, verifier string) (*models.TokenPayload, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.opts.RedirectURI)
	form.Set("client_id", s.opts.ClientID)
	form.Set("code_verifier", verifier)

	tokenURL := fmt.Sprintf("%s/services/oauth2/token", strings.TrimSuffix(s.opts.InstanceHost, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FlowError{
			Reason:  FailureTokenExchange,
			Message: fmt.Sprintf("token request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FlowError{
			Reason:  FailureTokenExchange,
			Message: remoteErrorMessage(body, resp.StatusCode),
		}
	}

	// A malformed success body decodes to an empty payload; the status code
	// is the primary success signal.
	payload := &models.TokenPayload{}
	decodeLoose(body, payload)

	return payload, nil
}
