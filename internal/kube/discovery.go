package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// DiscoveryResult holds the discovered metrics endpoint.
type DiscoveryResult struct {
	URL         string
	Type        string // "prometheus", "thanos", "cortex", "victoria-metrics", "mimir", "pushgateway"
	ServiceName string
	Namespace   string
	Port        int32
}

// DiscoveryOptions configures the service discovery search.
type DiscoveryOptions struct {
	Namespace string // empty = search all namespaces
}

// candidate describes a metrics backend to search for.
type candidate struct {
	backendType string
	selectors   []string
}

var candidates = []candidate{
	{
		backendType: "thanos",
		selectors: []string{
			"app.kubernetes.io/component=query,app.kubernetes.io/name=thanos",
			"app.kubernetes.io/name=thanos-query",
			"app=thanos-query",
			"app=thanos-querier",
		},
	},
	{
		backendType: "victoria-metrics",
		selectors: []string{
			"app.kubernetes.io/name=vmsingle",
			"app.kubernetes.io/name=victoria-metrics-single",
			"app.kubernetes.io/name=vmselect",
			"app=vmselect",
		},
	},
	{
		backendType: "mimir",
		selectors: []string{
			"app.kubernetes.io/name=mimir,app.kubernetes.io/component=query-frontend",
		},
	},
	{
		backendType: "cortex",
		selectors: []string{
			"app.kubernetes.io/name=cortex,app.kubernetes.io/component=query-frontend",
		},
	},
	{
		backendType: "prometheus",
		selectors: []string{
			"app=kube-prometheus-stack-prometheus",
			"app=prometheus,component=server",
			"app=prometheus-server",
			"app=prometheus-operator-prometheus",
			"app=prometheus-prometheus",
			"app.kubernetes.io/name=prometheus",
		},
	},
	{
		backendType: "pushgateway",
		selectors: []string{
			"app=prometheus-pushgateway",
			"app.kubernetes.io/name=prometheus-pushgateway",
			"app.kubernetes.io/component=pushgateway",
		},
	},
}

// Discover searches the Kubernetes cluster for a Prometheus-compatible metrics
// query service. It tries well-known label selectors in priority order
// (Thanos, VictoriaMetrics, Mimir, Cortex, Prometheus) and returns the first
// match; it never returns a Pushgateway, which is a write target rather than
// a query backend (see DiscoverPushgateway).
func Discover(ctx context.Context, client kubernetes.Interface, opts DiscoveryOptions) (*DiscoveryResult, error) {
	result, err := discoverAmong(ctx, client, opts, candidates[:len(candidates)-1])
	if err != nil {
		return nil, fmt.Errorf("no Prometheus-compatible service found in the cluster")
	}
	return result, nil
}

// DiscoverPushgateway searches the cluster for a Prometheus Pushgateway
// service by its well-known labels, for `compare` runs with
// kubernetes.enabled set and no kubernetes.pushgateway_url configured.
func DiscoverPushgateway(ctx context.Context, client kubernetes.Interface, opts DiscoveryOptions) (*DiscoveryResult, error) {
	result, err := discoverAmong(ctx, client, opts, candidates[len(candidates)-1:])
	if err != nil {
		return nil, fmt.Errorf("no pushgateway service found in the cluster; " +
			"set kubernetes.pushgateway_url explicitly")
	}
	return result, nil
}

func discoverAmong(ctx context.Context, client kubernetes.Interface, opts DiscoveryOptions, among []candidate) (*DiscoveryResult, error) {
	namespace := opts.Namespace

	for _, c := range among {
		for _, selector := range c.selectors {
			svcList, err := client.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{
				LabelSelector: selector,
			})
			if err != nil {
				continue
			}
			if len(svcList.Items) == 0 {
				continue
			}

			svc := svcList.Items[0]
			port := extractPort(svc)
			if port == 0 {
				continue
			}

			return &DiscoveryResult{
				URL:         fmt.Sprintf("http://%s.%s.svc:%d", svc.Name, svc.Namespace, port),
				Type:        c.backendType,
				ServiceName: svc.Name,
				Namespace:   svc.Namespace,
				Port:        port,
			}, nil
		}
	}

	return nil, fmt.Errorf("no matching service found")
}

// extractPort returns the best port from a Service, preferring well-known port names.
func extractPort(svc corev1.Service) int32 {
	preferredNames := map[string]bool{
		"http":     true,
		"web":      true,
		"http-web": true,
	}

	// First pass: look for a preferred port name
	for _, p := range svc.Spec.Ports {
		if preferredNames[p.Name] {
			return p.Port
		}
	}

	// Second pass: first TCP port
	for _, p := range svc.Spec.Ports {
		if p.Protocol == corev1.ProtocolTCP || p.Protocol == "" {
			return p.Port
		}
	}

	return 0
}
