package kube

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// PushResults pushes reg's collected metrics to a Prometheus Pushgateway
// under jobName, so a `compare` experiment's aggregated results land on a
// dashboard scraping the gateway instead of needing to be scraped from a
// short-lived process directly. target is either a directly reachable URL
// or an in-cluster service reference of the form "svc/name.namespace:port",
// in which case PushResults resolves a backing pod and opens a temporary
// port-forward tunnel through client/restConfig before pushing.
func PushResults(ctx context.Context, client kubernetes.Interface, restConfig *rest.Config, target, jobName string, reg *prometheus.Registry) error {
	if target == "" {
		return nil
	}

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		svcName, namespace, port, err := parseServiceTarget(target)
		if err != nil {
			return err
		}
		podName, err := FindPodForService(ctx, client, svcName, namespace)
		if err != nil {
			return fmt.Errorf("resolving pushgateway service %s: %w", target, err)
		}
		session, err := StartPortForward(restConfig, client, podName, namespace, port)
		if err != nil {
			return fmt.Errorf("port-forwarding to pushgateway pod %s: %w", podName, err)
		}
		defer session.Close()
		target = fmt.Sprintf("http://127.0.0.1:%d", session.LocalPort)
	}

	pusher := push.New(target, jobName).Gatherer(reg)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing results to pushgateway %s: %w", target, err)
	}
	return nil
}

// parseServiceTarget splits "svc/name.namespace:port" into its parts.
func parseServiceTarget(target string) (svcName, namespace string, port int32, err error) {
	target = strings.TrimPrefix(target, "svc/")
	hostPort := strings.SplitN(target, ":", 2)
	if len(hostPort) != 2 {
		return "", "", 0, fmt.Errorf("invalid in-cluster pushgateway target %q, want svc/name.namespace:port", target)
	}
	nameNs := strings.SplitN(hostPort[0], ".", 2)
	if len(nameNs) != 2 {
		return "", "", 0, fmt.Errorf("invalid in-cluster pushgateway target %q, want svc/name.namespace:port", target)
	}
	p, err := strconv.Atoi(hostPort[1])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid port in pushgateway target %q: %w", target, err)
	}
	return nameNs[0], nameNs[1], int32(p), nil
}
