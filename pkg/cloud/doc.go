// Package cloud builds the AWS service clients used by dwh and defines the narrow client
// interfaces the rest of the module depends on, so tests can substitute fakes.
package cloud
