package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"reelcut/internal/daemon"
	"reelcut/internal/editor"
	"reelcut/internal/logging"
	"reelcut/internal/scene"
)

func sessionStatus(st editor.Status) SessionStatus {
	return SessionStatus{
		Active:      st.Active,
		SceneID:     st.SceneID,
		Title:       st.Title,
		MediaURL:    st.MediaURL,
		MediaKind:   st.MediaKind,
		Ready:       st.Ready,
		Duration:    st.Duration,
		CurrentTime: st.CurrentTime,
		TrimStart:   st.TrimStart,
		TrimEnd:     st.TrimEnd,
		AspectRatio: st.AspectRatio,
		LastError:   st.LastError,
	}
}

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Reelcut", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually or rerun reelcut daemon stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockPath
	resp.SceneDBPath = status.SceneDBPath
	resp.Session = sessionStatus(status.Session)
	resp.SceneTotal = status.Scenes.Total
	resp.Dependencies = make([]DependencyStatus, 0, len(status.Dependencies))
	for _, dep := range status.Dependencies {
		resp.Dependencies = append(resp.Dependencies, DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) SceneList(_ SceneListRequest, resp *SceneListResponse) error {
	scenes, err := s.daemon.ListScenes(s.ctx)
	if err != nil {
		return err
	}
	resp.Scenes = make([]Scene, 0, len(scenes))
	for _, sc := range scenes {
		if sc == nil {
			continue
		}
		resp.Scenes = append(resp.Scenes, FromScene(sc))
	}
	return nil
}

func (s *service) SceneDescribe(req SceneDescribeRequest, resp *SceneDescribeResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("scene id is required")
	}
	sc, err := s.daemon.GetScene(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if sc == nil {
		return fmt.Errorf("scene %s not found", req.ID)
	}
	resp.Scene = FromScene(sc)
	return nil
}

func (s *service) SceneAdd(req SceneAddRequest, resp *SceneAddResponse) error {
	kind, err := scene.ParseKind(req.MediaKind)
	if err != nil {
		return err
	}
	sc := &scene.Scene{
		Title:             req.Title,
		MediaURL:          req.MediaURL,
		MediaKind:         kind,
		NarrationText:     req.NarrationText,
		NarrationVoice:    req.NarrationVoice,
		NarrationLanguage: req.NarrationLanguage,
		TrimStart:         req.TrimStart,
		TrimEnd:           req.TrimEnd,
	}
	if err := s.daemon.AddScene(s.ctx, sc); err != nil {
		return err
	}
	resp.Scene = FromScene(sc)
	return nil
}

func (s *service) SceneUpdate(req SceneUpdateRequest, resp *SceneUpdateResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("scene id is required")
	}
	sc, err := s.daemon.GetScene(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if sc == nil {
		return fmt.Errorf("scene %s not found", req.ID)
	}

	if req.Title != nil {
		sc.Title = *req.Title
	}
	if req.MediaURL != nil {
		sc.MediaURL = *req.MediaURL
	}
	if req.MediaKind != nil {
		kind, err := scene.ParseKind(*req.MediaKind)
		if err != nil {
			return err
		}
		sc.MediaKind = kind
	}
	if req.NarrationText != nil {
		sc.NarrationText = *req.NarrationText
	}
	if req.TrimStart != nil {
		sc.TrimStart = *req.TrimStart
	}
	if req.TrimEnd != nil {
		sc.TrimEnd = *req.TrimEnd
	}

	if err := s.daemon.UpdateScene(s.ctx, sc); err != nil {
		return err
	}
	resp.Scene = FromScene(sc)
	return nil
}

func (s *service) SceneRemove(req SceneRemoveRequest, resp *SceneRemoveResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("scene id is required")
	}
	if err := s.daemon.RemoveScene(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Removed = true
	return nil
}

func (s *service) SceneReorder(req SceneReorderRequest, resp *SceneReorderResponse) error {
	if err := s.daemon.ReorderScenes(s.ctx, req.IDs); err != nil {
		return err
	}
	resp.Reordered = true
	return nil
}

func (s *service) SceneHealth(_ SceneHealthRequest, resp *SceneHealthResponse) error {
	health, err := s.daemon.SceneHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = health.Total
	resp.Videos = health.Videos
	resp.Images = health.Images
	resp.Galleries = health.Galleries
	resp.WithAudio = health.WithAudio
	resp.WithoutTitle = health.WithOutTitle
	return nil
}

func (s *service) PreviewOpen(req PreviewOpenRequest, resp *PreviewOpenResponse) error {
	if strings.TrimSpace(req.SceneID) == "" {
		return errors.New("scene id is required")
	}
	if err := s.daemon.OpenPreview(s.ctx, req.SceneID); err != nil {
		return err
	}
	resp.Opened = true
	s.log().Info("preview opened via IPC",
		logging.String(logging.FieldSceneID, req.SceneID),
		logging.String(logging.FieldEventType, "preview_open"))
	return nil
}

func (s *service) PreviewClose(_ PreviewCloseRequest, resp *PreviewCloseResponse) error {
	s.daemon.ClosePreview()
	resp.Closed = true
	return nil
}

func (s *service) PreviewPlay(_ PreviewPlayRequest, resp *PreviewPlayResponse) error {
	if err := s.daemon.PlayPreview(); err != nil {
		return err
	}
	resp.Playing = true
	return nil
}

func (s *service) PreviewPause(_ PreviewPauseRequest, resp *PreviewPauseResponse) error {
	if err := s.daemon.PausePreview(); err != nil {
		return err
	}
	resp.Paused = true
	return nil
}

func (s *service) PreviewSeek(req PreviewSeekRequest, resp *PreviewSeekResponse) error {
	if err := s.daemon.SeekPreview(req.Seconds); err != nil {
		return err
	}
	resp.Accepted = true
	return nil
}

func (s *service) PreviewState(_ PreviewStateRequest, resp *PreviewStateResponse) error {
	resp.Session = sessionStatus(s.daemon.PreviewStatus())
	return nil
}

func (s *service) NarrationGenerate(req NarrationGenerateRequest, resp *NarrationGenerateResponse) error {
	if strings.TrimSpace(req.SceneID) == "" {
		return errors.New("scene id is required")
	}
	audioPath, err := s.daemon.GenerateNarration(s.ctx, req.SceneID)
	if err != nil {
		return err
	}
	resp.AudioPath = audioPath
	s.log().Info("narration generated via IPC",
		logging.String(logging.FieldSceneID, req.SceneID),
		logging.String(logging.FieldEventType, "narration_generate"))
	return nil
}
