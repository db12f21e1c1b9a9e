package format

import (
	"fmt"
	"strings"
)

type flagName[T ~uint32 | ~uint64] struct {
	bit  T
	name string
}

func joinFlags[T ~uint32 | ~uint64](v T, names []flagName[T]) string {
	var sb strings.Builder
	for _, n := range names {
		if v&n.bit == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n.name)
	}
	if sb.Len() == 0 {
		return "None"
	}

	return sb.String()
}

var packageFlagNames = []flagName[PackageFlags]{
	{PkgAllowDownload, "AllowDownload"},
	{PkgClientOptional, "ClientOptional"},
	{PkgServerSideOnly, "ServerSideOnly"},
	{PkgCooked, "Cooked"},
	{PkgUnsecure, "Unsecure"},
	{PkgSavedWithNewerVersion, "SavedWithNewerVersion"},
	{PkgNeed, "Need"},
	{PkgCompiling, "Compiling"},
	{PkgContainsMap, "ContainsMap"},
	{PkgTrash, "Trash"},
	{PkgDisallowLazyLoading, "DisallowLazyLoading"},
	{PkgPlayInEditor, "PlayInEditor"},
	{PkgContainsScript, "ContainsScript"},
	{PkgContainsDebugInfo, "ContainsDebugInfo"},
	{PkgRequireImportsAlreadyLoaded, "RequireImportsAlreadyLoaded"},
	{PkgSelfContainedLighting, "SelfContainedLighting"},
	{PkgStoreCompressed, "StoreCompressed"},
	{PkgStoreFullyCompressed, "StoreFullyCompressed"},
	{PkgContainsInlinedShaders, "ContainsInlinedShaders"},
	{PkgContainsFaceFXData, "ContainsFaceFXData"},
	{PkgNoExportAllowed, "NoExportAllowed"},
	{PkgStrippedSource, "StrippedSource"},
}

var exportFlagNames = []flagName[ExportFlags]{
	{ExportForced, "ForcedExport"},
	{ExportScriptPatcher, "ScriptPatcherExport"},
	{ExportMemberFieldPatchPending, "MemberFieldPatchPending"},
}

var objectFlagNames = []flagName[ObjectFlags]{
	{ObjInSingularFunc, "InSingularFunc"},
	{ObjStateChanged, "StateChanged"},
	{ObjDebugPostLoad, "DebugPostLoad"},
	{ObjDebugSerialize, "DebugSerialize"},
	{ObjDebugFinishDestroyed, "DebugFinishDestroyed"},
	{ObjEdSelected, "EdSelected"},
	{ObjZombieComponent, "ZombieComponent"},
	{ObjProtected, "Protected"},
	{ObjClassDefaultObject, "ClassDefaultObject"},
	{ObjArchetypeObject, "ArchetypeObject"},
	{ObjForceTagExp, "ForceTagExp"},
	{ObjTokenStreamAssembled, "TokenStreamAssembled"},
	{ObjMisalignedObject, "MisalignedObject"},
	{ObjRootSet, "RootSet"},
	{ObjBeginDestroyed, "BeginDestroyed"},
	{ObjFinishDestroyed, "FinishDestroyed"},
	{ObjDebugBeginDestroyed, "DebugBeginDestroyed"},
	{ObjMarkedByCooker, "MarkedByCooker"},
	{ObjLocalizedResource, "LocalizedResource"},
	{ObjInitializedProps, "InitializedProps"},
	{ObjPendingFieldPatches, "PendingFieldPatches"},
	{ObjIsCrossLevelReferenced, "IsCrossLevelReferenced"},
	{ObjSaved, "Saved"},
	{ObjTransactional, "Transactional"},
	{ObjUnreachable, "Unreachable"},
	{ObjPublic, "Public"},
	{ObjTagImp, "TagImp"},
	{ObjTagExp, "TagExp"},
	{ObjObsolete, "Obsolete"},
	{ObjTagGarbage, "TagGarbage"},
	{ObjDisregardForGC, "DisregardForGC"},
	{ObjPerObjectLocalized, "PerObjectLocalized"},
	{ObjNeedLoad, "NeedLoad"},
	{ObjAsyncLoading, "AsyncLoading"},
	{ObjNeedPostLoadSubobjects, "NeedPostLoadSubobjects"},
	{ObjSuppress, "Suppress"},
	{ObjInEndState, "InEndState"},
	{ObjTransient, "Transient"},
	{ObjCooked, "Cooked"},
	{ObjLoadForClient, "LoadForClient"},
	{ObjLoadForServer, "LoadForServer"},
	{ObjLoadForEdit, "LoadForEdit"},
	{ObjStandalone, "Standalone"},
	{ObjNotForClient, "NotForClient"},
	{ObjNotForServer, "NotForServer"},
	{ObjNotForEdit, "NotForEdit"},
	{ObjNeedPostLoad, "NeedPostLoad"},
	{ObjHasStack, "HasStack"},
	{ObjNative, "Native"},
	{ObjMarked, "Marked"},
	{ObjErrorShutdown, "ErrorShutdown"},
	{ObjPendingKill, "PendingKill"},
}

var pixelFormatNames = map[PixelFormat]string{
	PixelA32B32G32R32F:       "PF_A32B32G32R32F",
	PixelA8R8G8B8:            "PF_A8R8G8B8",
	PixelG8:                  "PF_G8",
	PixelG16:                 "PF_G16",
	PixelDXT1:                "PF_DXT1",
	PixelDXT3:                "PF_DXT3",
	PixelDXT5:                "PF_DXT5",
	PixelUYVY:                "PF_UYVY",
	PixelFloatRGB:            "PF_FloatRGB",
	PixelFloatRGBA:           "PF_FloatRGBA",
	PixelDepthStencil:        "PF_DepthStencil",
	PixelShadowDepth:         "PF_ShadowDepth",
	PixelFilteredShadowDepth: "PF_FilteredShadowDepth",
	PixelR32F:                "PF_R32F",
	PixelG16R16:              "PF_G16R16",
	PixelG16R16F:             "PF_G16R16F",
	PixelG16R16FFilter:       "PF_G16R16F_FILTER",
	PixelG32R32F:             "PF_G32R32F",
	PixelA2B10G10R10:         "PF_A2B10G10R10",
	PixelA16B16G16R16:        "PF_A16B16G16R16",
	PixelD24:                 "PF_D24",
	PixelR16F:                "PF_R16F",
	PixelR16FFilter:          "PF_R16F_FILTER",
	PixelBC5:                 "PF_BC5",
	PixelV8U8:                "PF_V8U8",
	PixelA1:                  "PF_A1",
	PixelFloatR11G11B10:      "PF_FloatR11G11B10",
}

func (f PackageFlags) String() string { return joinFlags(f, packageFlagNames) }

func (f ExportFlags) String() string { return joinFlags(f, exportFlagNames) }

func (f ObjectFlags) String() string { return joinFlags(f, objectFlagNames) }

func (p PixelFormat) String() string {
	if name, ok := pixelFormatNames[p]; ok {
		return name
	}

	return "PF_Unknown"
}

// VersionString renders a version pair the way tools print it, e.g. "610/14".
func VersionString(fileVersion, licenseeVersion uint16) string {
	return fmt.Sprintf("%d/%d", fileVersion, licenseeVersion)
}
