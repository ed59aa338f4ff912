package natives

import (
	"io"
	"net/http"
	"strings"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `http` module: get, post, backed by stdlib
// net/http (SPEC_FULL §4.6). Both return the response body as a
// string whatever the response's status code: only a failed request or
// a failed body read is reported through the returned error, and the
// status code itself is not exposed in the Value.
func init() {
	register(&moduleEntry{
		name: "http",
		fns: map[string]nativeSpec{
			"get":  {1, httpGet},
			"post": {2, httpPost},
		},
	})
}

func httpGet(m *vm.VM, args []vm.Value) (vm.Value, error) {
	url, err := wantString(args, 0, "http.get")
	if err != nil {
		return vm.Value{}, err
	}
	resp, err := http.Get(url)
	if err != nil {
		return vm.Value{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(string(body)), nil
}

func httpPost(m *vm.VM, args []vm.Value) (vm.Value, error) {
	url, err := wantString(args, 0, "http.post")
	if err != nil {
		return vm.Value{}, err
	}
	body, err := wantString(args, 1, "http.post")
	if err != nil {
		return vm.Value{}, err
	}
	resp, err := http.Post(url, "application/octet-stream", strings.NewReader(body))
	if err != nil {
		return vm.Value{}, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(string(respBody)), nil
}
