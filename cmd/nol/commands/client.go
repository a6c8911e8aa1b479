package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/nol/api"
	"github.com/pkg/errors"
)

func cleanURL(u string) string {
	return strings.TrimSuffix(u, "/")
}

func getURL(path string) string {
	return fmt.Sprintf("%s%s", cleanURL(apiAddr), path)
}

// socketURL is the websocket url for path on the api.
func socketURL(path string) (string, error) {
	u, err := url.Parse(getURL(path))
	if err != nil {
		return "", errors.Wrap(err, "invalid api address")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

func getStatus(id string, limit, offset int) (*api.GameStatus, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(getURL(fmt.Sprintf("/games/%s?limit=%d&offset=%d", url.PathEscape(id), limit, offset)))
	if err != nil {
		return nil, errors.Wrap(err, "error while getting status")
	}
	defer resp.Body.Close()

	// Limited read to 10mb of data.
	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, 10000000))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	s := &api.GameStatus{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "unable to unmarshal status response: %s", string(data))
	}
	return s, nil
}
