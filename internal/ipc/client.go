package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Reelcut.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Reelcut.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneList returns all scenes in project order.
func (c *Client) SceneList() (*SceneListResponse, error) {
	var resp SceneListResponse
	if err := c.client.Call("Reelcut.SceneList", SceneListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneDescribe returns details for a single scene.
func (c *Client) SceneDescribe(id string) (*SceneDescribeResponse, error) {
	var resp SceneDescribeResponse
	if err := c.client.Call("Reelcut.SceneDescribe", SceneDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneAdd appends a scene to the project.
func (c *Client) SceneAdd(req SceneAddRequest) (*SceneAddResponse, error) {
	var resp SceneAddResponse
	if err := c.client.Call("Reelcut.SceneAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneUpdate modifies fields of an existing scene.
func (c *Client) SceneUpdate(req SceneUpdateRequest) (*SceneUpdateResponse, error) {
	var resp SceneUpdateResponse
	if err := c.client.Call("Reelcut.SceneUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneRemove deletes a scene.
func (c *Client) SceneRemove(id string) (*SceneRemoveResponse, error) {
	var resp SceneRemoveResponse
	if err := c.client.Call("Reelcut.SceneRemove", SceneRemoveRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneReorder rewrites project order.
func (c *Client) SceneReorder(ids []string) (*SceneReorderResponse, error) {
	var resp SceneReorderResponse
	if err := c.client.Call("Reelcut.SceneReorder", SceneReorderRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SceneHealth returns aggregate scene diagnostics.
func (c *Client) SceneHealth() (*SceneHealthResponse, error) {
	var resp SceneHealthResponse
	if err := c.client.Call("Reelcut.SceneHealth", SceneHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewOpen starts a preview session for a scene.
func (c *Client) PreviewOpen(sceneID string) (*PreviewOpenResponse, error) {
	var resp PreviewOpenResponse
	if err := c.client.Call("Reelcut.PreviewOpen", PreviewOpenRequest{SceneID: sceneID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewClose ends the active preview session.
func (c *Client) PreviewClose() (*PreviewCloseResponse, error) {
	var resp PreviewCloseResponse
	if err := c.client.Call("Reelcut.PreviewClose", PreviewCloseRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewPlay starts playback of the active session.
func (c *Client) PreviewPlay() (*PreviewPlayResponse, error) {
	var resp PreviewPlayResponse
	if err := c.client.Call("Reelcut.PreviewPlay", PreviewPlayRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewPause pauses playback of the active session.
func (c *Client) PreviewPause() (*PreviewPauseResponse, error) {
	var resp PreviewPauseResponse
	if err := c.client.Call("Reelcut.PreviewPause", PreviewPauseRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewSeek moves playback to a position in seconds.
func (c *Client) PreviewSeek(seconds float64) (*PreviewSeekResponse, error) {
	var resp PreviewSeekResponse
	if err := c.client.Call("Reelcut.PreviewSeek", PreviewSeekRequest{Seconds: seconds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PreviewState fetches the active session snapshot.
func (c *Client) PreviewState() (*PreviewStateResponse, error) {
	var resp PreviewStateResponse
	if err := c.client.Call("Reelcut.PreviewState", PreviewStateRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NarrationGenerate synthesizes narration audio for a scene.
func (c *Client) NarrationGenerate(sceneID string) (*NarrationGenerateResponse, error) {
	var resp NarrationGenerateResponse
	if err := c.client.Call("Reelcut.NarrationGenerate", NarrationGenerateRequest{SceneID: sceneID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
