package http

import (
	"errors"
	"fmt"
	"sync"

	"ar-quiz-service/internal/domain"
)

var errConnectionClosed = errors.New("connection closed")

type placeObjectPayload struct {
	Handle domain.Handle     `json:"handle"`
	Spec   domain.ObjectSpec `json:"spec"`
}

type removeObjectPayload struct {
	Handle domain.Handle `json:"handle"`
}

type anchorPayload struct {
	Anchored bool         `json:"anchored"`
	Position *domain.Vec3 `json:"position,omitempty"`
}

type screenPayload struct {
	Phase domain.Phase `json:"phase"`
}

// remoteRenderer drives the client's AR scene over the socket.
// The client reports its camera pose; placement and removal go back as commands.
type remoteRenderer struct {
	out  *outbox
	mu   sync.Mutex
	pose domain.Pose
	next int
}

func newRemoteRenderer(out *outbox) *remoteRenderer {
	return &remoteRenderer{out: out}
}

func (r *remoteRenderer) SetPose(pose domain.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pose = pose
}

func (r *remoteRenderer) CameraPose() domain.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pose
}

func (r *remoteRenderer) PlaceObject(spec domain.ObjectSpec) (domain.Handle, error) {
	r.mu.Lock()
	r.next++
	handle := domain.Handle(fmt.Sprintf("obj-%d", r.next))
	r.mu.Unlock()

	if !r.out.Send("placeObject", placeObjectPayload{Handle: handle, Spec: spec}) {
		return "", errConnectionClosed
	}
	return handle, nil
}

func (r *remoteRenderer) RemoveObject(handle domain.Handle) {
	r.out.Send("removeObject", removeObjectPayload{Handle: handle})
}

func (r *remoteRenderer) PlaceAnchor(position domain.Vec3) {
	r.out.Send("anchor", anchorPayload{Anchored: true, Position: &position})
}

func (r *remoteRenderer) ReleaseAnchor() {
	r.out.Send("anchor", anchorPayload{Anchored: false})
}

// Show implements app.Screen.
func (r *remoteRenderer) Show(phase domain.Phase) {
	r.out.Send("screen", screenPayload{Phase: phase})
}
