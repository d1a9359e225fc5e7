package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// pricingAPIBase is the public EC2 pricing API (no auth required).
	pricingAPIBase = "https://go.runs-on.com/api/instances"

	pricingHTTPTimeout = 10 * time.Second
)

type instancePricing struct {
	OnDemandPrice float64
	SpotPrice     float64
}

type pricingAPIResult struct {
	InstanceType  string  `json:"instanceType"`
	OnDemandPrice float64 `json:"onDemandPrice"`
	SpotPrice     float64 `json:"spotPrice"`
}

type pricingAPIResponse struct {
	Results []pricingAPIResult `json:"results"`
}

// EnrichWithPricing adds on-demand and spot prices to instances using the
// public runs-on.com pricing API (no AWS credentials required). Returns
// the number of instances that got on-demand pricing.
func (p *AWSProvider) EnrichWithPricing(ctx context.Context, instances []Instance) (int, error) {
	client := &http.Client{Timeout: pricingHTTPTimeout}
	priced := 0

	for i := range instances {
		pr, err := fetchInstancePrice(ctx, client, instances[i].InstanceType, p.region)
		if err != nil {
			continue
		}
		if pr.OnDemandPrice > 0 {
			instances[i].OnDemandPricePerHour = pr.OnDemandPrice
			priced++
		}
		if pr.SpotPrice > 0 {
			instances[i].SpotPricePerHour = pr.SpotPrice
		}
	}

	return priced, nil
}

func fetchInstancePrice(ctx context.Context, client *http.Client, instanceType, region string) (*instancePricing, error) {
	url := fmt.Sprintf("%s/%s?region=%s&platform=Linux/UNIX", pricingAPIBase, instanceType, region)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing API returned %d for %s", resp.StatusCode, instanceType)
	}

	var pr pricingAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, err
	}
	if len(pr.Results) == 0 {
		return nil, fmt.Errorf("no pricing data for %s in %s", instanceType, region)
	}

	result := &instancePricing{
		OnDemandPrice: pr.Results[0].OnDemandPrice,
		SpotPrice:     pr.Results[0].SpotPrice,
	}
	for _, r := range pr.Results[1:] {
		if r.SpotPrice > 0 && (result.SpotPrice == 0 || r.SpotPrice < result.SpotPrice) {
			result.SpotPrice = r.SpotPrice
		}
	}

	return result, nil
}
