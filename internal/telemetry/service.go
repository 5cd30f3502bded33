package telemetry

import (
	"context"
	"fmt"
)

// Viewer describes who is asking: role plus the devices a non-admin may
// see. The API layer builds this from the access token claims.
type Viewer struct {
	Role           string
	AllowedDevices []string
}

// Admin reports whether the viewer sees every device.
func (v Viewer) Admin() bool {
	return v.Role == "admin"
}

// CanSee reports whether the viewer may access the given device.
func (v Viewer) CanSee(deviceID string) bool {
	if v.Admin() {
		return true
	}
	for _, id := range v.AllowedDevices {
		if id == deviceID {
			return true
		}
	}
	return false
}

// Service provides role-aware telemetry reads. Device visibility is
// enforced here, server-side, so every caller gets the same visible set.
type Service struct {
	repo     Repository
	pageSize int
}

// NewService creates a telemetry service over the repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, pageSize: DefaultPageSize}
}

// ListDevices returns the devices the viewer may see: everything for
// admins, the allowed subset for everyone else.
func (s *Service) ListDevices(ctx context.Context, viewer Viewer) ([]*Device, error) {
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	if viewer.Admin() {
		return devices, nil
	}

	visible := make([]*Device, 0, len(devices))
	for _, d := range devices {
		if viewer.CanSee(d.DeviceID) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

// GetDevice returns one device, or ErrDeviceNotFound when it does not exist
// or the viewer may not see it. Hiding forbidden devices behind not-found
// avoids leaking which device ids exist.
func (s *Service) GetDevice(ctx context.Context, viewer Viewer, deviceID string) (*Device, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.GetDevice(ctx, deviceID)
}

// Contacts returns the contact list for a device.
func (s *Service) Contacts(ctx context.Context, viewer Viewer, deviceID string) ([]*Contact, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.ListContacts(ctx, deviceID)
}

// Calls returns one page of the call log. Pages are 1-based; out-of-range
// pages are clamped into [1, pages].
func (s *Service) Calls(ctx context.Context, viewer Viewer, deviceID string, page int) (*PagedCalls, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}

	page, offset := s.clampPage(page)
	records, total, err := s.repo.ListCalls(ctx, deviceID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing calls: %w", err)
	}

	pagination := s.paginate(page, total)
	if pagination.Page != page {
		// The clamp needed the total; refetch the real last page.
		_, offset = s.clampPage(pagination.Page)
		records, _, err = s.repo.ListCalls(ctx, deviceID, offset, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing calls: %w", err)
		}
	}

	if records == nil {
		records = []*CallRecord{}
	}
	out := make([]CallRecord, 0, len(records))
	for _, r := range records {
		out = append(out, *r)
	}
	return &PagedCalls{CallRecords: out, Pagination: pagination}, nil
}

// SMS returns one page of the SMS log with the same paging rules as Calls.
func (s *Service) SMS(ctx context.Context, viewer Viewer, deviceID string, page int) (*PagedSMS, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}

	page, offset := s.clampPage(page)
	records, total, err := s.repo.ListSMS(ctx, deviceID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing sms: %w", err)
	}

	pagination := s.paginate(page, total)
	if pagination.Page != page {
		_, offset = s.clampPage(pagination.Page)
		records, _, err = s.repo.ListSMS(ctx, deviceID, offset, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing sms: %w", err)
		}
	}

	if records == nil {
		records = []*SMSRecord{}
	}
	out := make([]SMSRecord, 0, len(records))
	for _, r := range records {
		out = append(out, *r)
	}
	return &PagedSMS{SMSRecords: out, Pagination: pagination}, nil
}

// Locations returns the location history for a device.
func (s *Service) Locations(ctx context.Context, viewer Viewer, deviceID string) ([]*Location, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.ListLocations(ctx, deviceID)
}

// ActiveApplications returns the active applications on a device.
func (s *Service) ActiveApplications(ctx context.Context, viewer Viewer, deviceID string) ([]*Application, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.ListActiveApplications(ctx, deviceID)
}

// ActiveProcesses returns the active processes on a device.
func (s *Service) ActiveProcesses(ctx context.Context, viewer Viewer, deviceID string) ([]*ProcessActivity, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.ListActiveProcesses(ctx, deviceID)
}

// UnreadNotifications returns the unread notifications for a device.
func (s *Service) UnreadNotifications(ctx context.Context, viewer Viewer, deviceID string) ([]*Notification, error) {
	if !viewer.CanSee(deviceID) {
		return nil, ErrDeviceNotFound
	}
	return s.repo.ListUnreadNotifications(ctx, deviceID)
}

// clampPage normalizes a requested page to at least 1 and returns the
// matching offset.
func (s *Service) clampPage(page int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * s.pageSize
}

// paginate computes the pagination envelope for a total, clamping the page
// into [1, pages] when there is at least one page.
func (s *Service) paginate(page, total int) Pagination {
	pages := (total + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	return Pagination{Total: total, Page: page, Pages: pages}
}
