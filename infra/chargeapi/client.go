// Package chargeapi fetches live charging data for an order from the
// charging operator's mini-program endpoint.
package chargeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/http2"

	"github.com/kilianp07/chargewatch/config"
	"github.com/kilianp07/chargewatch/core/fault"
	"github.com/kilianp07/chargewatch/core/model"
	"github.com/kilianp07/chargewatch/core/monitor"
	"github.com/kilianp07/chargewatch/infra/logger"
)

// Client posts order identifiers to the charging data endpoint.
type Client struct {
	url            string
	userAgent      string
	successMessage string
	http           *http.Client
	log            logger.Logger
}

// New creates a client with an HTTP/2 capable transport bounded by
// monitor.RequestTimeout.
func New(cfg config.APIConfig) *Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 5 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
	log := logger.New("charge-api")
	if err := http2.ConfigureTransport(tr); err != nil {
		log.Warnf("http2 unavailable, using HTTP/1.1: %v", err)
	}
	return NewWithHTTPClient(cfg, &http.Client{Transport: tr, Timeout: monitor.RequestTimeout})
}

// NewWithHTTPClient creates a client using hc for every request.
func NewWithHTTPClient(cfg config.APIConfig, hc *http.Client) *Client {
	return &Client{
		url:            cfg.URL,
		userAgent:      cfg.UserAgent,
		successMessage: cfg.SuccessMessage,
		http:           hc,
		log:            logger.New("charge-api"),
	}
}

type envelope struct {
	Normal json.RawMessage `json:"normal"`
	Msg    model.Text      `json:"msg"`
	Data   json.RawMessage `json:"eleChargingData"`
}

type chargingData struct {
	StartTime       model.Text      `json:"startTime"`
	StationName     model.Text      `json:"snName"`
	DeviceID        model.Text      `json:"sn"`
	SocketID        model.Text      `json:"sid"`
	ChargeTime      model.Text      `json:"chargeTime"`
	OutPower        json.RawMessage `json:"outPower"`
	PayMoney        model.Text      `json:"payMoney"`
	SafeServerMoney model.Text      `json:"safeServerMoney"`
	TimeServerMoney model.Text      `json:"timeServerMoney"`
}

// Fetch requests the charging data of order id. Every failure is returned as
// a *fault.Error.
func (c *Client) Fetch(ctx context.Context, id string) (model.Reading, error) {
	form := url.Values{"cid": {id}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return model.Reading{}, fault.Unknown(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			return model.Reading{}, fault.Transport(ue.Err)
		}
		return model.Reading{}, fault.Unknown(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return model.Reading{}, fault.Protocol(resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Reading{}, fault.Transport(err)
	}
	c.log.Debugw("charging data received", map[string]any{"cid": id, "bytes": len(body)})
	return c.decode(body)
}

func (c *Client) decode(body []byte) (model.Reading, error) {
	if !utf8.Valid(body) {
		return model.Reading{}, fault.Unknown(errors.New("response is not valid UTF-8"))
	}
	if !json.Valid(body) {
		return model.Reading{}, fault.Parse(errors.New("response is not JSON"))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.Reading{}, fault.Unknown(fmt.Errorf("unexpected response shape: %w", err))
	}
	if !isOne(env.Normal) || !c.acceptMessage(env.Msg) {
		msg := "unknown error"
		if env.Msg.Present {
			msg = env.Msg.Value
		}
		return model.Reading{}, fault.Application(msg)
	}
	var d chargingData
	if len(env.Data) > 0 {
		if bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
			return model.Reading{}, fault.Unknown(errors.New("charging data is null"))
		}
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return model.Reading{}, fault.Unknown(fmt.Errorf("unexpected charging data shape: %w", err))
		}
	}
	r := model.Reading{
		StartTime:       d.StartTime,
		StationName:     d.StationName,
		DeviceID:        d.DeviceID,
		SocketID:        d.SocketID,
		ChargeTime:      d.ChargeTime,
		PayMoney:        model.Money{Text: d.PayMoney},
		SafeServerMoney: model.Money{Text: d.SafeServerMoney},
		TimeServerMoney: model.Money{Text: d.TimeServerMoney},
	}
	if err := r.RawPower.UnmarshalJSON(d.OutPower); err != nil {
		return model.Reading{}, fault.Unknown(err)
	}
	r.Power = numericPower(d.OutPower)
	return r, nil
}

func (c *Client) acceptMessage(msg model.Text) bool {
	if c.successMessage == "" {
		return true
	}
	return msg.Present && msg.Value == c.successMessage
}

func isOne(raw json.RawMessage) bool {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return false
	}
	return f == 1
}

// numericPower returns the power only when the server sent a JSON number.
func numericPower(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
