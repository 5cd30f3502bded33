package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kidwatch/kidwatch/internal/session"
)

// SignInResponse is the payload of a successful signin.
type SignInResponse struct {
	User  *session.User `json:"user"`
	Token string        `json:"token"`
}

func (r SignInResponse) Validate() error {
	if r.Token == "" || r.User == nil {
		return fmt.Errorf("signin response missing token or user")
	}
	return nil
}

// SignIn authenticates with email and password and, on success, persists the
// returned token and profile into the session store.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp SignInResponse
	if err := c.doPublic(ctx, "/auth/signin", body, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if err := c.sessions.Login(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doPublic(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using the reset token from the email
// link's token query parameter.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.doPublic(ctx, "/auth/reset-password", body, nil)
}

// Devices lists the devices visible to the signed-in user.
func (c *Client) Devices(ctx context.Context) (DeviceList, error) {
	var devices DeviceList
	if err := c.Get(ctx, "/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Device fetches one device by its external id.
func (c *Client) Device(ctx context.Context, deviceID string) (*Device, error) {
	var device Device
	if err := c.Get(ctx, "/devices/"+url.PathEscape(deviceID), &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// Contacts fetches the contact list for a device.
func (c *Client) Contacts(ctx context.Context, deviceID string) ([]Contact, error) {
	var contacts []Contact
	if err := c.Get(ctx, "/contacts/device/"+url.PathEscape(deviceID), &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Calls fetches one page of the call log for a device. Pages are 1-based;
// the requested page is passed through unclamped and the backend decides
// what an out-of-range page yields.
func (c *Client) Calls(ctx context.Context, deviceID string, page int) (*CallsResponse, error) {
	path := "/calls/device/" + url.PathEscape(deviceID)
	if page > 0 {
		path += fmt.Sprintf("?page=%d", page)
	}

	var resp CallsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SMS fetches one page of the SMS log for a device. Same paging rules as
// Calls.
func (c *Client) SMS(ctx context.Context, deviceID string, page int) (*SMSResponse, error) {
	path := "/sms/device/" + url.PathEscape(deviceID)
	if page > 0 {
		path += fmt.Sprintf("?page=%d", page)
	}

	var resp SMSResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Locations fetches the location history for a device.
func (c *Client) Locations(ctx context.Context, deviceID string) ([]Location, error) {
	var locations []Location
	if err := c.Get(ctx, "/locations/device/"+url.PathEscape(deviceID), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// Applications fetches the active applications on a device.
func (c *Client) Applications(ctx context.Context, deviceID string) ([]Application, error) {
	var apps []Application
	if err := c.Get(ctx, "/applications/device/"+url.PathEscape(deviceID)+"/active", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ProcessActivities fetches the active processes on a device.
func (c *Client) ProcessActivities(ctx context.Context, deviceID string) ([]ProcessActivity, error) {
	var procs []ProcessActivity
	if err := c.Get(ctx, "/process-activities/device/"+url.PathEscape(deviceID)+"/active", &procs); err != nil {
		return nil, err
	}
	return procs, nil
}

// Notifications fetches the unread notifications captured on a device.
func (c *Client) Notifications(ctx context.Context, deviceID string) ([]Notification, error) {
	var notes []Notification
	if err := c.Get(ctx, "/notifications/device/"+url.PathEscape(deviceID)+"/unread", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
