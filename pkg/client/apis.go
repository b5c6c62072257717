package client

import (
	"encoding/json"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battbar/pkg/config"
	"github.com/charlie0129/battbar/pkg/history"
	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/widget"
)

func decode[T any](ret string, what string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal %s", what)
	}
	return &v, nil
}

func (c *Client) GetState() (*widget.Values, error) {
	ret, err := c.Get("/state")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get widget state")
	}
	return decode[widget.Values](ret, "widget state")
}

func (c *Client) GetBattery() (*powerinfo.Report, error) {
	ret, err := c.Get("/battery")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get battery report")
	}
	return decode[powerinfo.Report](ret, "battery report")
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}
	return decode[config.RawFileConfig](ret, "config")
}

func (c *Client) SetRefreshInterval(d time.Duration) (string, error) {
	return c.Put("/refresh-interval", strconv.FormatInt(d.Milliseconds(), 10))
}

func (c *Client) SetTopmost(enabled bool) (string, error) {
	return c.Put("/topmost", strconv.FormatBool(enabled))
}

func (c *Client) SetTransparency(enabled bool) (string, error) {
	return c.Put("/transparency", strconv.FormatBool(enabled))
}

// Refresh asks the daemon to sample now and returns the resulting state.
func (c *Client) Refresh() (*widget.Values, error) {
	ret, err := c.Post("/refresh", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to refresh")
	}
	return decode[widget.Values](ret, "widget state")
}

func (c *Client) GetHistory(limit int) ([]history.Sample, error) {
	path := "/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	ret, err := c.Get(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get history")
	}

	var samples []history.Sample
	if err := json.Unmarshal([]byte(ret), &samples); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal history")
	}
	return samples, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
