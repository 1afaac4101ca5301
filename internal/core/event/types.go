package event

// Category routes an event to the handlers subscribed to it.
type Category int

const (
	CategoryCamera Category = iota
	CategoryPlayer
	CategoryNonPlayer
	CategoryPickup
	CategorySound
	CategoryMenu
	CategoryUI
	CategoryGameObject
	CategoryUIObject
	CategoryOpacity
	CategoryPicking
	CategoryInventory
	CategoryVideo
	CategoryMaterialChange
	CategoryGameState
)

var categoryNames = [...]string{
	"camera", "player", "non_player", "pickup", "sound", "menu", "ui",
	"game_object", "ui_object", "opacity", "picking", "inventory", "video",
	"material_change", "game_state",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Action says what happened. Its parameters are positional and their
// meaning is fixed per action by convention.
type Action int

const (
	OnPlay Action = iota
	OnPlay2D
	OnPlay3D
	OnPause
	OnResume
	OnRestart
	OnExit
	OnStop
	OnStopAll
	OnVolumeDelta
	OnVolumeSet
	OnMute
	OnUnMute
	OnClick
	OnHover
	OnCameraSetActive
	OnCameraCycle
	OnLose
	OnWin
	OnPickup
	OnAddObject    // [0] object (UIObject: [0] ui scene name, [1] object)
	OnRemoveObject // [0] object
	OnEnableObject
	OnDisableObject
	OnSpawnObject
	OnObjectPicked
	OnNoObjectPicked
	OnHealthDelta // [0] target name, [1] int delta
	OnVolumeSetMaster
	OnVolumeChange
	OnRemoveInventory // [0] item name
	OnAddInventory    // [0] item name
	OnMouseClick      // [0] target name
)

var actionNames = [...]string{
	"play", "play_2d", "play_3d", "pause", "resume", "restart", "exit", "stop",
	"stop_all", "volume_delta", "volume_set", "mute", "unmute", "click", "hover",
	"camera_set_active", "camera_cycle", "lose", "win", "pickup", "add_object",
	"remove_object", "enable_object", "disable_object", "spawn_object",
	"object_picked", "no_object_picked", "health_delta", "volume_set_master",
	"volume_change", "remove_inventory", "add_inventory", "mouse_click",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Data is the payload delivered to handlers.
type Data struct {
	Category   Category
	Action     Action
	Parameters []any
}

func New(category Category, action Action, params ...any) Data {
	return Data{Category: category, Action: action, Parameters: params}
}

// Param returns the i-th parameter, or (nil, false) if absent.
func (d Data) Param(i int) (any, bool) {
	if i < 0 || i >= len(d.Parameters) {
		return nil, false
	}
	return d.Parameters[i], true
}

// StringParam returns the i-th parameter if it is a string.
func (d Data) StringParam(i int) (string, bool) {
	v, ok := d.Param(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntParam returns the i-th parameter if it is an int.
func (d Data) IntParam(i int) (int, bool) {
	v, ok := d.Param(i)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
