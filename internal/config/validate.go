package config

import (
	"fmt"
	"strings"
)

// Endpoint shape rules
const (
	SearchEndpointSuffix = ".search.windows.net"
	OpenAIEndpointSuffix = ".openai.azure.com/"

	searchEndpointExample = "https://your-service-name.search.windows.net"
	openAIEndpointExample = "https://YOUR_RESOURCE_NAME.openai.azure.com/"
)

// MissingError reports required environment variables that are not set.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing environment variables: " + strings.Join(e.Vars, ", ")
}

// EndpointError reports an endpoint that does not match its expected shape.
type EndpointError struct {
	Var      string
	Value    string
	Expected string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("invalid %s format: expected %s, got %q", e.Var, e.Expected, e.Value)
}

// ValidateSearch checks the Azure AI Search parameters.
func (c *Config) ValidateSearch() error {
	var missing []string
	if c.Search.Endpoint == "" {
		missing = append(missing, EnvSearchEndpoint)
	}
	if c.Search.AdminKey == "" {
		missing = append(missing, EnvSearchAdminKey)
	}
	if c.Search.IndexName == "" {
		missing = append(missing, EnvSearchIndexName)
	}
	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}

	if !hasShape(c.Search.Endpoint, SearchEndpointSuffix) {
		return &EndpointError{Var: EnvSearchEndpoint, Value: c.Search.Endpoint, Expected: searchEndpointExample}
	}
	return nil
}

// ValidateOpenAI checks the Azure OpenAI parameters.
func (c *Config) ValidateOpenAI() error {
	var missing []string
	if c.OpenAI.Endpoint == "" {
		missing = append(missing, EnvOpenAIEndpoint)
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, EnvOpenAIAPIKey)
	}
	if c.OpenAI.Deployment == "" {
		missing = append(missing, EnvOpenAIDeployment)
	}
	if c.OpenAI.APIVersion == "" {
		missing = append(missing, EnvOpenAIAPIVersion)
	}
	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}

	if !hasShape(c.OpenAI.Endpoint, OpenAIEndpointSuffix) {
		return &EndpointError{Var: EnvOpenAIEndpoint, Value: c.OpenAI.Endpoint, Expected: openAIEndpointExample}
	}
	return nil
}

// Validate checks everything the query path needs. Missing variables from
// both services are reported together.
func (c *Config) Validate() error {
	searchErr := c.ValidateSearch()
	openAIErr := c.ValidateOpenAI()

	searchMissing, _ := searchErr.(*MissingError)
	openAIMissing, _ := openAIErr.(*MissingError)
	if searchMissing != nil || openAIMissing != nil {
		merged := &MissingError{}
		if searchMissing != nil {
			merged.Vars = append(merged.Vars, searchMissing.Vars...)
		}
		if openAIMissing != nil {
			merged.Vars = append(merged.Vars, openAIMissing.Vars...)
		}
		return merged
	}
	if searchErr != nil {
		return searchErr
	}
	return openAIErr
}

func hasShape(endpoint, suffix string) bool {
	return strings.HasPrefix(endpoint, "https://") && strings.HasSuffix(endpoint, suffix)
}
