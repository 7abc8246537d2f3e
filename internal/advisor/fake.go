package advisor

import "context"

// FakeProvider returns canned advisory text, for tests and offline runs.
type FakeProvider struct {
	ResponseText string
	Error        error

	// LastProjection records the most recent input for assertions.
	LastProjection Projection
}

func NewFake(response string) *FakeProvider {
	return &FakeProvider{ResponseText: response}
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) Advise(_ context.Context, p Projection) (string, error) {
	f.LastProjection = p
	if f.Error != nil {
		return "", f.Error
	}
	return f.ResponseText, nil
}
